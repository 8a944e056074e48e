package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/creditosas/prestamo-engine/internal/config"
	"github.com/creditosas/prestamo-engine/internal/database"
	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/repository"
	"github.com/creditosas/prestamo-engine/internal/service"
)

// createadmin seeds a user from the console so a fresh deployment has
// someone who can log in.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("connecting to database")
	}
	defer db.Close()

	if err := database.MigrateUp(db); err != nil {
		log.WithError(err).Fatal("running migrations")
	}

	users := service.NewUserService(repository.NewUserRepository(db))
	reader := bufio.NewReader(os.Stdin)

	username := prompt(reader, "Username: ")
	password := prompt(reader, "Password: ")
	role := prompt(reader, fmt.Sprintf("Role [%s/%s] (default %s): ", domain.RoleAdmin, domain.RoleCollector, domain.RoleAdmin))
	if role == "" {
		role = string(domain.RoleAdmin)
	}

	user, err := users.Create(context.Background(), &domain.CreateUserRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	if err != nil {
		log.WithError(err).Fatal("creating user")
	}

	fmt.Printf("User %q created with role %s (id %s)\n", user.Username, user.Role, user.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.WithError(err).Fatal("reading input")
	}
	return strings.TrimSpace(line)
}
