package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied parameter of the service.
type Config struct {
	ServerPort   int
	JWTSecretKey string

	// DatabaseURL selects the Postgres snapshot store when set; otherwise
	// the embedded bbolt store at DataPath is used.
	DatabaseURL string
	DataPath    string

	// Chat platform identifiers, all opaque to the core.
	OrgaUserIDs     []string
	AdminRoleID     string
	EmbedChannelID  string
	MatchCategoryID string

	// Timezone used to interpret match schedules.
	Location *time.Location

	// Optional Cloudflare R2 credentials for archiving result screenshots.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from the environment. A .env file is loaded
// when present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	orgaIDs := splitIDs(os.Getenv("ORGA_USER_IDS"))
	if len(orgaIDs) == 0 {
		return nil, fmt.Errorf("ORGA_USER_IDS environment variable is not set")
	}

	adminRole := os.Getenv("ADMIN_ROLE_ID")
	if adminRole == "" {
		return nil, fmt.Errorf("ADMIN_ROLE_ID environment variable is not set")
	}

	embedChannel := os.Getenv("EMBED_CHANNEL_ID")
	if embedChannel == "" {
		return nil, fmt.Errorf("EMBED_CHANNEL_ID environment variable is not set")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = "duocup.db"
	}

	tzName := os.Getenv("TOURNAMENT_TZ")
	if tzName == "" {
		tzName = "Europe/Paris"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TOURNAMENT_TZ %q: %w", tzName, err)
	}

	cfg := &Config{
		ServerPort:   port,
		JWTSecretKey: jwtKey,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DataPath:     dataPath,

		OrgaUserIDs:     orgaIDs,
		AdminRoleID:     adminRole,
		EmbedChannelID:  embedChannel,
		MatchCategoryID: os.Getenv("MATCH_CATEGORY_ID"),

		Location: loc,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// R2Configured reports whether all credentials for the screenshot archive
// are present. The archive is optional; the service runs without it.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" &&
		c.R2SecretAccessKey != "" && c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
