// Command admin bootstraps an administrator account. It prompts for an email
// and a password (read without echo), hashes the password and inserts the
// user with the admin role directly into the database.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/auth"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/config"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/repositories/repomanager"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func getPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password (empty to generate one): "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("db migration error: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	email, err := getSimpleText(reader, "Enter admin email", os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	name, err := getSimpleText(reader, "Enter admin name", os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if name == "" {
		name = "Administrator"
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	generated := len(password) == 0
	if generated {
		s, err := common.MakeRandHexString(12)
		if err != nil {
			log.Fatalf("error generating password: %v", err)
		}
		password = []byte(s)
	}
	defer common.WipeByteArray(password)

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		log.Fatalf("error hashing password: %v", err)
	}

	user := &models.User{
		Email:        services.NormalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Preferences: models.Preferences{
			Theme:         "system",
			Language:      "en",
			Notifications: true,
		},
	}

	created, err := m.Users(db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			log.Fatalf("email %s is already registered", user.Email)
		}
		log.Fatalf("error creating admin: %v", err)
	}

	fmt.Printf("Admin %s created (id %s)\n", created.Email, created.ID)
	if generated {
		fmt.Printf("Generated password: %s\n", password)
	}
}
