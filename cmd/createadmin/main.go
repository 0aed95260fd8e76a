// Command createadmin creates or resets the storefront admin account from
// the command line, outside of the running application.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/fatihashop/storefront/internal/config"
	"github.com/fatihashop/storefront/internal/hash"
	"github.com/fatihashop/storefront/internal/models"
)

func main() {
	username := flag.String("username", "admin", "admin account name")
	password := flag.String("password", "", "new password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: createadmin -password <new password> [-username admin]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	passwordHash, err := hash.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash error: %v", err)
	}

	var user models.User
	err = db.Where("username = ?", *username).First(&user).Error
	switch {
	case err == nil:
		user.PasswordHash = passwordHash
		user.IsAdmin = true
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("update error: %v", err)
		}
		fmt.Printf("updated password for %q\n", *username)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Username: *username, PasswordHash: passwordHash, IsAdmin: true}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("create error: %v", err)
		}
		fmt.Printf("created admin user %q\n", *username)
	default:
		log.Fatalf("lookup error: %v", err)
	}
}
