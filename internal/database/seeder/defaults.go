package seeder

const DefaultDemoPassword = "password123"

// Defaults returns the demo data set: one account per role and one open job.
func Defaults(demoPassword string, bcryptCost int) []Seeder {
	if demoPassword == "" {
		demoPassword = DefaultDemoPassword
	}
	return []Seeder{
		UsersSeeder{Password: demoPassword, BcryptCost: bcryptCost},
		JobsSeeder{},
	}
}
