// Command init_admin creates or resets the administrator credential. Any
// existing account with the same email is removed first, so the script can
// be re-run to rotate the password.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myeventng/somarv26/internal/config"
	"github.com/myeventng/somarv26/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "admin@somarv26.com", "admin email")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: init_admin -email <email> -password <password>")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	if err := db.DB.Where("email = ?", *email).Delete(&db.User{}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to remove existing account: %v\n", err)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user := db.User{Email: *email, Name: "Admin", Role: "admin", Password: string(hashed)}
	if err := db.DB.Create(&user).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Admin created")
	fmt.Printf("Email: %s\n", *email)
}
