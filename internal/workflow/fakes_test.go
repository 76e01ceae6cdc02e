package workflow

import (
	"context"
	"sync"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
)

type memJobs struct {
	mu      sync.Mutex
	items   map[uuid.UUID]job.Job
	updates int
}

func newMemJobs(jobs ...job.Job) *memJobs {
	m := &memJobs{items: map[uuid.UUID]job.Job{}}
	for _, j := range jobs {
		m.items[j.ID] = j
	}
	return m
}

func (m *memJobs) CreateJob(_ context.Context, j job.Job) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[j.ID] = j
	return j, nil
}

func (m *memJobs) GetJobByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.items[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (m *memJobs) UpdateJob(_ context.Context, j job.Job) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[j.ID]; !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	m.updates++
	m.items[j.ID] = j
	return j, nil
}

func (m *memJobs) DeleteJob(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrJobNotFound
	}
	delete(m.items, id)
	return nil
}

type memApps struct {
	mu        sync.Mutex
	items     map[uuid.UUID]application.Application
	createErr error
	updateErr error
	updates   int
}

func newMemApps(apps ...application.Application) *memApps {
	m := &memApps{items: map[uuid.UUID]application.Application{}}
	for _, a := range apps {
		m.items[a.ID] = a
	}
	return m
}

func (m *memApps) CreateApplication(_ context.Context, a application.Application) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return application.Application{}, m.createErr
	}
	for _, existing := range m.items {
		if existing.JobID == a.JobID && existing.UserID == a.UserID {
			return application.Application{}, repository.ErrDuplicateApplication
		}
	}
	m.items[a.ID] = a
	return a, nil
}

func (m *memApps) GetApplicationByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	return a, nil
}

func (m *memApps) ExistsForJobAndUser(_ context.Context, jobID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.JobID == jobID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApps) UpdateApplication(_ context.Context, a application.Application) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return application.Application{}, m.updateErr
	}
	if _, ok := m.items[a.ID]; !ok {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	m.updates++
	m.items[a.ID] = a
	return a, nil
}

func (m *memApps) DeleteApplication(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrApplicationNotFound
	}
	delete(m.items, id)
	return nil
}

type memUsers struct {
	items map[uuid.UUID]user.User
	err   error
}

func newMemUsers(users ...user.User) *memUsers {
	m := &memUsers{items: map[uuid.UUID]user.User{}}
	for _, u := range users {
		m.items[u.ID] = u
	}
	return m
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if m.err != nil {
		return user.User{}, m.err
	}
	u, ok := m.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Publish(_ context.Context, evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingSink) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func openJob() job.Job {
	return job.Job{
		ID:       uuid.New(),
		Title:    "Backend Engineer",
		Company:  "Acme",
		Status:   job.StatusOpen,
		PostedAt: fixedNow.Add(-24 * time.Hour),
	}
}

func submittedApp(jobID, userID uuid.UUID) application.Application {
	return application.Application{
		ID:        uuid.New(),
		JobID:     jobID,
		UserID:    userID,
		FullName:  "Uma Seeker",
		Email:     "u1@example.com",
		Status:    application.StatusSubmitted,
		AppliedAt: fixedNow.Add(-time.Hour),
		Priority:  application.DefaultPriority,
	}
}
