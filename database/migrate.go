package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"school-admin/models"
)

// Migrate creates or updates the tables and seeds the first console user.
// Tables are never dropped.
func Migrate(db *gorm.DB, adminEmail, adminPassword string) error {
	log.Println("🔄 Starting database migration...")

	// Dependency order: referenced tables first.
	tables := []interface{}{
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.PriceQuote{},
		&models.User{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			log.Printf("❌ Error migrating table %T: %v", table, err)
			return err
		}
		log.Printf("✅ Created/Updated table for: %T", table)
	}

	createIndexes(db)

	if err := seedAdmin(db, adminEmail, adminPassword); err != nil {
		log.Printf("⚠️ Error seeding admin user: %v", err)
	}

	log.Println("✅ Database migration completed successfully!")
	return nil
}

func createIndexes(db *gorm.DB) {
	log.Println("📊 Creating indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_students_class_id ON students(class_id)",
		"CREATE INDEX IF NOT EXISTS idx_students_surname ON students(surname)",
		"CREATE INDEX IF NOT EXISTS idx_classes_teacher_id ON classes(teacher_id)",
		"CREATE INDEX IF NOT EXISTS idx_classes_level ON classes(level)",
		"CREATE INDEX IF NOT EXISTS idx_classes_created_at ON classes(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_teachers_is_active ON teachers(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_price_quotes_student_id ON price_quotes(student_id)",
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Printf("⚠️ Could not create index: %v", err)
		}
	}

	log.Println("✅ Indexes created successfully!")
}

func seedAdmin(db *gorm.DB, email, password string) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		log.Println("✅ Users already exist, skipping seed")
		return nil
	}
	if email == "" || password == "" {
		log.Println("⚠️ No users yet and ADMIN_EMAIL/ADMIN_PASSWORD not set; use cmd/add_user")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.User{Email: email, Password: string(hashedPassword)}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s", admin.Email)
	return nil
}
