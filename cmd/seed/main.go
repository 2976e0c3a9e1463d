package main

import (
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/jobmate-app/jobmate-be/internal/config"
	"github.com/jobmate-app/jobmate-be/internal/db"
	"github.com/jobmate-app/jobmate-be/internal/models"
)

var categories = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX Design",
	"Graphic Design",
	"Content Writing",
	"Digital Marketing",
	"Data Science",
	"Machine Learning",
	"Blockchain Development",
	"Game Development",
	"Video Editing",
	"Translation",
	"Voice Over",
	"Virtual Assistant",
	"Accounting",
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	created, skipped := 0, 0
	for _, name := range categories {
		var existing models.Category
		err := gdb.Where("name = ?", name).First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatal(err)
		}
		if err := gdb.Create(&models.Category{Name: name}).Error; err != nil {
			log.Fatal(err)
		}
		log.Printf("created category: %s", name)
		created++
	}

	log.Printf("seed done: %d created, %d skipped", created, skipped)
}
