package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI           string
	DBName             string
	Port               string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GeminiAPIKey       string
	GeminiModel        string
	AWSRegion          string
	AWSBucketName      string
	SendGridFromName   string
	SendGridFromEmail  string
	// DemoMode makes the personalized-setup screen reappear on every new
	// session instead of only once per account.
	DemoMode bool
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	DBName = os.Getenv("DB_NAME")
	if DBName == "" {
		DBName = "luckydream"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	JWTSecret = os.Getenv("JWT_SECRET")

	GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if GoogleRedirectURL == "" {
		GoogleRedirectURL = "http://localhost:8080/auth/google/callback"
	}

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	GeminiModel = os.Getenv("GEMINI_MODEL")
	if GeminiModel == "" {
		GeminiModel = "gemini-2.5-flash"
	}

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "ap-southeast-1"
	}
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	SendGridFromName = os.Getenv("SENDGRID_FROM_NAME")
	if SendGridFromName == "" {
		SendGridFromName = "LuckyDream"
	}
	SendGridFromEmail = os.Getenv("SENDGRID_FROM_EMAIL")
	if SendGridFromEmail == "" {
		SendGridFromEmail = "no-reply@luckydream.app"
	}

	DemoMode = os.Getenv("DEMO_MODE") == "true"
}
