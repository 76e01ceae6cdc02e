package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
)

func newTestClient(r *Registry, userID uuid.UUID, buffer int) *Client {
	return NewClient(r, nil, userID, "", ClientOptions{SendBuffer: buffer})
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case frame, ok := <-c.Send():
		if !ok {
			t.Fatalf("send queue closed")
		}
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		return env
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for frame")
	}
	return Envelope{}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case frame := <-c.Send():
		t.Fatalf("unexpected frame: %s", frame)
	default:
	}
}

func TestRegistry_ConnectSubscribesDefaults(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	userID := uuid.New()
	authed := newTestClient(r, userID, 4)
	anon := newTestClient(r, uuid.Nil, 4)

	if err := r.Connect(authed); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := r.Connect(anon); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if got := r.Members(ChannelBroadcast); got != 2 {
		t.Fatalf("broadcast members = %d, want 2", got)
	}
	if got := r.Members(UserChannel(userID)); got != 1 {
		t.Fatalf("user members = %d, want 1", got)
	}
	stats := r.Stats()
	if stats.Connections != 2 || stats.Authenticated != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRegistry_SendToGroupTargetsMembersOnly(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	jobID := uuid.New()
	watcher := newTestClient(r, uuid.New(), 4)
	bystander := newTestClient(r, uuid.New(), 4)
	for _, c := range []*Client{watcher, bystander} {
		if err := r.Connect(c); err != nil {
			t.Fatalf("connect: %v", err)
		}
	}
	if err := r.Join(watcher, JobChannel(jobID)); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := r.SendToGroup(JobChannel(jobID), "job_updated", []byte(`{"job_id":"x"}`)); err != nil {
		t.Fatalf("send: %v", err)
	}

	env := receive(t, watcher)
	if env.Type != "job_updated" || env.Channel != JobChannel(jobID) {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if string(env.Data) != `{"job_id":"x"}` {
		t.Fatalf("unexpected data: %s", env.Data)
	}
	expectNothing(t, bystander)
}

func TestRegistry_LeaveStopsDelivery(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	jobID := uuid.New()
	c := newTestClient(r, uuid.Nil, 4)
	_ = r.Connect(c)
	_ = r.Join(c, JobChannel(jobID))
	_ = r.Leave(c, JobChannel(jobID))

	if got := r.Members(JobChannel(jobID)); got != 0 {
		t.Fatalf("job members = %d, want 0", got)
	}
	if _, ok := r.Stats().Channels[JobChannel(jobID)]; ok {
		t.Fatalf("expected empty channel to be removed")
	}
	if err := r.SendToGroup(JobChannel(jobID), "job_updated", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	expectNothing(t, c)
}

func TestRegistry_DisconnectCleansUp(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	userID := uuid.New()
	c := newTestClient(r, userID, 4)
	_ = r.Connect(c)
	_ = r.Join(c, JobChannel(uuid.New()))

	r.Disconnect(c)
	r.Disconnect(c)

	stats := r.Stats()
	if stats.Connections != 0 || len(stats.Channels) != 0 {
		t.Fatalf("expected empty registry, got %+v", stats)
	}
	if _, ok := <-c.Send(); ok {
		t.Fatalf("expected send queue closed")
	}
	if err := r.Join(c, ChannelBroadcast); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestRegistry_SlowClientIsDropped(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	slow := newTestClient(r, uuid.Nil, 1)
	fast := newTestClient(r, uuid.Nil, 8)
	_ = r.Connect(slow)
	_ = r.Connect(fast)

	if err := r.SendToGroup(ChannelBroadcast, "job_created", nil); err != nil {
		t.Fatalf("first send: %v", err)
	}
	err := r.SendToGroup(ChannelBroadcast, "job_created", nil)
	if !errors.Is(err, ErrSendBufferFull) {
		t.Fatalf("expected ErrSendBufferFull, got %v", err)
	}
	if got := r.Members(ChannelBroadcast); got != 1 {
		t.Fatalf("broadcast members = %d, want 1", got)
	}
	receive(t, fast)
	receive(t, fast)
}

func TestRegistry_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	if err := r.SendToGroup(ChannelBroadcast, "x", []byte("{not json")); !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
	}
	if err := r.SendToGroup(ChannelBroadcast, "", nil); !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
	}
}

func TestRegistry_Close(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	c := newTestClient(r, uuid.Nil, 4)
	_ = r.Connect(c)

	r.Close()
	r.Close()

	if _, ok := <-c.Send(); ok {
		t.Fatalf("expected send queue closed")
	}
	if err := r.Connect(newTestClient(r, uuid.Nil, 4)); !errors.Is(err, ErrRegistryClosed) {
		t.Fatalf("expected ErrRegistryClosed, got %v", err)
	}
	if err := r.SendToGroup(ChannelBroadcast, "x", nil); !errors.Is(err, ErrRegistryClosed) {
		t.Fatalf("expected ErrRegistryClosed, got %v", err)
	}
}

func TestRegistry_ConcurrentMembership(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	jobID := uuid.New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestClient(r, uuid.New(), 256)
			if err := r.Connect(c); err != nil {
				t.Errorf("connect: %v", err)
				return
			}
			for j := 0; j < 50; j++ {
				_ = r.Join(c, JobChannel(jobID))
				_ = r.SendToGroup(JobChannel(jobID), "job_updated", nil)
				_ = r.Leave(c, JobChannel(jobID))
			}
			r.Disconnect(c)
		}()
	}
	wg.Wait()

	if stats := r.Stats(); stats.Connections != 0 || len(stats.Channels) != 0 {
		t.Fatalf("expected empty registry, got %+v", stats)
	}
}

func TestClient_HandleFrame(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	c := NewClient(r, nil, uuid.New(), user.RoleRecruiter, ClientOptions{SendBuffer: 4})
	_ = r.Connect(c)
	jobID := uuid.New()

	env := c.handleFrame([]byte(`{"action":"join_job","job_id":"` + jobID.String() + `"}`))
	if env.Type != "join_job_ok" || env.Channel != JobChannel(jobID) {
		t.Fatalf("unexpected reply: %+v", env)
	}
	if r.Members(JobChannel(jobID)) != 1 {
		t.Fatalf("expected client on job channel")
	}

	env = c.handleFrame([]byte(`{"action":"leave_job","job_id":"` + jobID.String() + `"}`))
	if env.Type != "leave_job_ok" || r.Members(JobChannel(jobID)) != 0 {
		t.Fatalf("unexpected leave result: %+v", env)
	}

	for _, raw := range []string{`nope`, `{"action":"join_job","job_id":"1"}`, `{"action":"dance"}`} {
		if env := c.handleFrame([]byte(raw)); env.Type != "error" {
			t.Fatalf("%s: expected error reply, got %+v", raw, env)
		}
	}
}

func TestParseChannel(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	kind, got, err := ParseChannel(JobChannel(id))
	if err != nil || kind != "job" || got != id {
		t.Fatalf("unexpected parse: %s %s %v", kind, got, err)
	}
	if kind, _, err := ParseChannel(ChannelBroadcast); err != nil || kind != ChannelBroadcast {
		t.Fatalf("unexpected broadcast parse: %s %v", kind, err)
	}
	for _, bad := range []string{"", "job:", "team:" + id.String(), "user:abc"} {
		if _, _, err := ParseChannel(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRegistry_RejectsInvalidChannels(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	defer r.Close()
	c := newTestClient(r, uuid.New(), 4)
	if err := r.Connect(c); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := r.Join(c, "team:red"); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("expected ErrInvalidChannel on join, got %v", err)
	}
	if err := r.SendToGroup("job:not-a-uuid", "job_updated", nil); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("expected ErrInvalidChannel on send, got %v", err)
	}
	if len(c.Send()) != 0 {
		t.Fatalf("expected nothing queued")
	}
}
