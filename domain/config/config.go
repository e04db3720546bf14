package config

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"multisig/domain"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	PresignAll     = domain.PresignAll
	PresignCreator = domain.PresignCreator
	PresignNone    = domain.PresignNone
)

var (
	ErrorInvalidStore             = fmt.Errorf("store must be equal to 'memory' or 'postgres' only")
	ErrorNoDbUri                  = fmt.Errorf("service_db_uri is required for the postgres store")
	ErrorInvalidEmergencyCooldown = fmt.Errorf("invalid duration for emergency cooldown")
	ErrorInvalidTimeLock          = fmt.Errorf("invalid duration for time-lock")
	ErrorInvalidPresign           = fmt.Errorf("presign must be equal to 'all', 'creator' or 'none' only")
	ErrorInvalidTokenDecimals     = fmt.Errorf("token decimals must be between 0 and 18, default decimals between 1 and 18")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	store         string
	dbUri         string
	listenAddress string

	emergencyCooldown        time.Duration
	emergencyCooldownPersist bool

	presign string

	timeLockLow    time.Duration
	timeLockMedium time.Duration
	timeLockHigh   time.Duration

	precision domain.Precision
)

func init() {
	setDefaults()
}

func setDefaults() {
	viper.SetDefault("store", StoreMemory)
	viper.SetDefault("listen_address", ":3000")
	viper.SetDefault("emergency_cooldown", "1h")
	viper.SetDefault("emergency_cooldown_persist", false)
	viper.SetDefault("presign", PresignAll)
	viper.SetDefault("timelock_low", "0s")
	viper.SetDefault("timelock_medium", "0s")
	viper.SetDefault("timelock_high", "0s")
	viper.SetDefault("default_decimals", domain.DefaultDecimalPlaces)
}

func ReadConfig(filePath string) {
	if filePath != "" {
		viper.SetConfigFile(filePath)
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
	}

	err := initializeVariables()
	if err != nil {
		log.Fatalf("Configuration error - %v\n", err.Error())
	}
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	var err error

	// Storage stuff
	store = strings.TrimSpace(strings.ToLower(viper.GetString("store")))
	if store != StoreMemory && store != StorePostgres {
		return ErrorInvalidStore
	}
	dbUri = TrailingSlashRE.ReplaceAllString(viper.GetString("service_db_uri"), "")
	if store == StorePostgres && dbUri == "" {
		return ErrorNoDbUri
	}

	listenAddress = strings.TrimSpace(viper.GetString("listen_address"))

	//---------------------------------------------------------------
	// emergency governor
	emergencyCooldown, err = time.ParseDuration(viper.GetString("emergency_cooldown"))
	if err != nil || emergencyCooldown < 0 {
		return ErrorInvalidEmergencyCooldown
	}
	emergencyCooldownPersist = viper.GetBool("emergency_cooldown_persist")

	//---------------------------------------------------------------
	// signatures recorded at proposal creation
	presign = strings.TrimSpace(strings.ToLower(viper.GetString("presign")))
	if presign != PresignAll && presign != PresignCreator && presign != PresignNone {
		return ErrorInvalidPresign
	}

	//---------------------------------------------------------------
	// time-locks per policy tier
	if timeLockLow, err = parseTimeLock("timelock_low"); err != nil {
		return err
	}
	if timeLockMedium, err = parseTimeLock("timelock_medium"); err != nil {
		return err
	}
	if timeLockHigh, err = parseTimeLock("timelock_high"); err != nil {
		return err
	}

	//---------------------------------------------------------------
	// token precision
	precision = domain.Precision{
		Default: viper.GetInt32("default_decimals"),
		Tokens:  map[string]int32{},
	}
	if precision.Default < 1 || precision.Default > domain.DefaultDecimalPlaces {
		return ErrorInvalidTokenDecimals
	}
	for token, places := range viper.GetStringMap("token_decimals") {
		n, ok := toInt32(places)
		if !ok || n < 0 || n > domain.DefaultDecimalPlaces {
			return ErrorInvalidTokenDecimals
		}
		precision.Tokens[strings.ToUpper(token)] = n
	}

	return nil
}

func parseTimeLock(key string) (time.Duration, error) {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d < 0 {
		return 0, ErrorInvalidTimeLock
	}
	return d, nil
}

func toInt32(v interface{}) (int32, bool) {
	switch n := v.(type) {
	case int:
		return int32(n), true
	case int32:
		return n, true
	case int64:
		return int32(n), true
	case float64:
		return int32(n), float64(int32(n)) == n
	}
	return 0, false
}

//-------------------------------------------------------------------
// Normal configuration values

func GetStore() string {
	return store
}

func GetDbUri() string {
	return dbUri
}

func GetListenAddress() string {
	return listenAddress
}

func GetEmergencyCooldown() time.Duration {
	return emergencyCooldown
}

func IsEmergencyCooldownPersisted() bool {
	return emergencyCooldownPersist
}

func GetPresign() string {
	return presign
}

func GetPrecision() domain.Precision {
	return precision
}

// -------------------------------------------------------------------
// Evaluating values

// GetPolicyTiers returns the default tier table with the configured time-locks.
func GetPolicyTiers() []domain.PolicyTier {
	tiers := domain.DefaultPolicyTiers()
	tiers[0].TimeLock = timeLockLow
	tiers[1].TimeLock = timeLockMedium
	tiers[2].TimeLock = timeLockHigh
	return tiers
}
