package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"qbank_backend/internals/configs"
	examModel "qbank_backend/internals/features/exams/model"
	instructionModel "qbank_backend/internals/features/instructions/model"
	questionModel "qbank_backend/internals/features/questions/model"
	seriesModel "qbank_backend/internals/features/series/model"
	taxonomyModel "qbank_backend/internals/features/taxonomy/model"
	testModel "qbank_backend/internals/features/tests/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=qbank&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer-friendly (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("failed to connect DB: %v", err)
	}
	DB = db
	log.Println("DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Migrate() {
	err := DB.AutoMigrate(
		&taxonomyModel.SubjectModel{},
		&taxonomyModel.TopicModel{},
		&examModel.ExamModel{},
		&questionModel.QuestionModel{},
		&testModel.TestModel{},
		&seriesModel.TestSeriesModel{},
		&instructionModel.TestInstructionsModel{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations applied.")
}

func WarmUp() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
