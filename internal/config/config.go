package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	JWTSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string

	ZeptoToken         string
	ZeptoBounceAddress string
	ZeptoBaseURL       string
	ZeptoTemplateKey   string
	ZeptoFromAddress   string
	ZeptoFromName      string
	AdminNotifyEmail   string

	PDFRenderURL  string
	PublicBaseURL string
	InvoiceDir    string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		ZeptoToken:         os.Getenv("ZEPTOMAIL_SENDMAIL_TOKEN"),
		ZeptoBounceAddress: os.Getenv("ZEPTOMAIL_BOUNCE_ADDRESS"),
		ZeptoBaseURL:       os.Getenv("ZEPTOMAIL_BASE_URL"),
		ZeptoTemplateKey:   os.Getenv("ZEPTOMAIL_TEMPLATE_KEY_ORDER_ADMIN"),
		ZeptoFromAddress:   os.Getenv("ZEPTOMAIL_FROM_ADDRESS"),
		ZeptoFromName:      os.Getenv("ZEPTOMAIL_FROM_NAME"),
		AdminNotifyEmail:   os.Getenv("ADMIN_NOTIFY_EMAIL"),

		PDFRenderURL:  os.Getenv("PDF_RENDER_URL"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		InvoiceDir:    os.Getenv("INVOICE_DIR"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.ZeptoFromName == "" {
		cfg.ZeptoFromName = "IndiaDoors"
	}
	if cfg.InvoiceDir == "" {
		cfg.InvoiceDir = "invoices"
	}

	return cfg
}
