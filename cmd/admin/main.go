// Command admin manages administrator accounts and tails live idea events.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"agora/internal/cache"
	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/models"
	"agora/internal/notifications"
	"agora/internal/repository"

	"github.com/google/uuid"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <user_id|email>   - Promote user to admin")
	fmt.Println("  go run ./cmd/admin demote <user_id|email>    - Demote user from admin")
	fmt.Println("  go run ./cmd/admin list-admins               - List all admins")
	fmt.Println("  go run ./cmd/admin watch-events              - Print idea events as they are published")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	command := os.Args[1]

	if command == "watch-events" {
		if err := watchEvents(ctx, cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := repository.NewUserRepository(db)

	switch command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			usage()
		}
		if err := setAdmin(ctx, users, os.Args[2], command == "promote"); err != nil {
			log.Fatal(err)
		}
	case "list-admins":
		if err := listAdmins(ctx, users); err != nil {
			log.Fatal(err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
	}
}

// findUser resolves a user by id or, failing that, by email.
func findUser(ctx context.Context, users repository.UserRepository, ref string) (*models.User, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return users.GetByID(ctx, id)
	}
	user, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(ref)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", ref)
	}
	return user, nil
}

func setAdmin(ctx context.Context, users repository.UserRepository, ref string, admin bool) error {
	user, err := findUser(ctx, users, ref)
	if err != nil {
		return err
	}
	if user.IsAdmin == admin {
		fmt.Printf("User %s (%s) already has is_admin=%t\n", user.Name, user.ID, admin)
		return nil
	}
	if err := users.SetAdmin(ctx, user.ID, admin); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	verb := "demoted"
	if admin {
		verb = "promoted"
	}
	fmt.Printf("Successfully %s %s (%s)\n", verb, user.Name, user.ID)
	return nil
}

func listAdmins(ctx context.Context, users repository.UserRepository) error {
	admins, err := users.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("fetch admins: %w", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return nil
	}
	fmt.Println("Current admins:")
	for _, a := range admins {
		fmt.Printf("ID: %s | Name: %s | Email: %s\n", a.ID, a.Name, a.Email)
	}
	return nil
}

// watchEvents prints every idea and user notification until interrupted.
func watchEvents(ctx context.Context, cfg *config.Config) error {
	rdb := cache.InitRedis(cfg.RedisURL)
	if rdb == nil {
		return fmt.Errorf("redis is not reachable at %q", cfg.RedisURL)
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := notifications.NewNotifier(rdb)
	err := notifier.StartPatternSubscriber(ctx, []string{"ideas:*", "notifications:user:*"}, func(channel, payload string) {
		fmt.Printf("%s %s\n", channel, payload)
	})
	if err != nil {
		return err
	}
	fmt.Println("Watching idea events, Ctrl+C to stop")
	<-ctx.Done()
	return nil
}
