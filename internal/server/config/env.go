package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "GOPHLEDGER_"

// parseEnv loads the dotenv file selected by -env (".env" by default, a
// missing file is not an error) and then overlays every GOPHLEDGER_*
// variable that is set. Variables already present in the process
// environment take precedence over the file, as godotenv never overrides.
//
// Recognised variables (prefix omitted):
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_DSN, SECRET_KEY, SIGNING_ALGORITHM,
//	ACCESS_TOKEN_EXPIRE_MINUTES, BCRYPT_COST, CURRENCY_API_URL,
//	CURRENCY_API_KEY, LOG_LEVEL, AMQP_URL, AMQP_EXCHANGE, S3_ROOT_USER,
//	S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	EXPORT_LINK_EXPIRE_MINUTES
//
// Malformed numbers panic, like malformed JSON or flags do.
func parseEnv(config *Config) {
	if err := godotenv.Load(flagx.EnvFileFlags()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envString(&config.SigningAlgorithm, "SIGNING_ALGORITHM")
	envMinutes(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_EXPIRE_MINUTES")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envString(&config.CurrencyAPIURL, "CURRENCY_API_URL")
	envString(&config.CurrencyAPIKey, "CURRENCY_API_KEY")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.AMQPURL, "AMQP_URL")
	envString(&config.AMQPExchange, "AMQP_EXCHANGE")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envMinutes(&config.ExportLinkValidityDuration, "EXPORT_LINK_EXPIRE_MINUTES")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envMinutes(dst *time.Duration, name string) {
	if _, ok := os.LookupEnv(envPrefix + name); !ok {
		return
	}
	var minutes int
	envInt(&minutes, name)
	*dst = time.Duration(minutes) * time.Minute
}
