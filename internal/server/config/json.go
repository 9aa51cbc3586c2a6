package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/flagx"
	"github.com/dmitrijs2005/gophledger/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Duration
// fields use timex.Duration so both "30m" strings and integer nanoseconds
// are accepted. Fields left out of the file keep their current value.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SigningAlgorithm            string         `json:"signing_algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	CurrencyAPIURL              string         `json:"currency_api_url"`
	CurrencyAPIKey              string         `json:"currency_api_key"`
	CurrencyAPITimeout          timex.Duration `json:"currency_api_timeout"`
	LogLevel                    string         `json:"log_level"`
	AMQPURL                     string         `json:"amqp_url"`
	AMQPExchange                string         `json:"amqp_exchange"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ExportLinkValidityDuration  timex.Duration `json:"export_link_validity_duration"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// When neither flag is present nothing is loaded. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlayString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlayString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlayString(&config.DatabaseDSN, c.DatabaseDSN)
	overlayString(&config.SecretKey, c.SecretKey)
	overlayString(&config.SigningAlgorithm, c.SigningAlgorithm)
	overlayDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	overlayString(&config.CurrencyAPIURL, c.CurrencyAPIURL)
	overlayString(&config.CurrencyAPIKey, c.CurrencyAPIKey)
	overlayDuration(&config.CurrencyAPITimeout, c.CurrencyAPITimeout)
	overlayString(&config.LogLevel, c.LogLevel)
	overlayString(&config.AMQPURL, c.AMQPURL)
	overlayString(&config.AMQPExchange, c.AMQPExchange)
	overlayString(&config.S3RootUser, c.S3RootUser)
	overlayString(&config.S3RootPassword, c.S3RootPassword)
	overlayString(&config.S3Bucket, c.S3Bucket)
	overlayString(&config.S3Region, c.S3Region)
	overlayString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlayDuration(&config.ExportLinkValidityDuration, c.ExportLinkValidityDuration)
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
