package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ENV_PREFIX = "CONNECTION_CATALOG"

	URL_APP_NAME                       = "URL_App_Name"
	URL_PATH_PREFIX                    = "URL_Path_Prefix"
	URL_BASE_PATH                      = "URL_Base_Path"
	HTTP_SHUTDOWN_TIMEOUT              = "HTTP_Shutdown_Timeout"
	SERVICE_TO_SERVICE_CREDENTIALS     = "Service_To_Service_Credentials"
	PROFILE                            = "Enable_Profile"
	CONNECTION_TABLE_IMPL              = "Connection_Table_Impl"
	CONNECTION_DATABASE_HOST           = "Connection_Database_Host"
	CONNECTION_DATABASE_PORT           = "Connection_Database_Port"
	CONNECTION_DATABASE_USER           = "Connection_Database_User"
	CONNECTION_DATABASE_PASSWORD       = "Connection_Database_Password"
	CONNECTION_DATABASE_NAME           = "Connection_Database_Name"
	CONNECTION_DATABASE_SSL_MODE       = "Connection_Database_SSL_Mode"
	CONNECTION_DATABASE_SSL_ROOT_CERT  = "Connection_Database_SSL_Root_Cert"
	CONNECTION_DATABASE_QUERY_TIMEOUT  = "Connection_Database_Query_Timeout"
	CONNECTION_EVENTS_IMPL             = "Connection_Events_Impl"
	CONNECTION_EVENTS_BROKERS          = "Connection_Events_Kafka_Brokers"
	CONNECTION_EVENTS_TOPIC            = "Connection_Events_Kafka_Topic"
	CONNECTION_EVENTS_BATCH_SIZE       = "Connection_Events_Kafka_Batch_Size"
	CONNECTION_EVENTS_BATCH_BYTES      = "Connection_Events_Kafka_Batch_Bytes"
	KAFKA_USERNAME                     = "Kafka_Username"
	KAFKA_PASSWORD                     = "Kafka_Password"
	KAFKA_SASL_MECHANISM               = "Kafka_SASL_Mechanism"
	KAFKA_CA                           = "Kafka_CA"
	DEFAULT_KAFKA_BROKER_ADDRESS       = "kafka:29092"
)

type Config struct {
	UrlAppName                      string
	UrlPathPrefix                   string
	UrlBasePath                     string
	HttpShutdownTimeout             time.Duration
	ServiceToServiceCredentials     map[string]interface{}
	Profile                         bool
	ConnectionTableImpl             string
	ConnectionDatabaseHost          string
	ConnectionDatabasePort          int
	ConnectionDatabaseUser          string
	ConnectionDatabasePassword      string
	ConnectionDatabaseName          string
	ConnectionDatabaseSslMode       string
	ConnectionDatabaseSslRootCert   string
	ConnectionDatabaseQueryTimeout  time.Duration
	ConnectionEventsImpl            string
	ConnectionEventsKafkaBrokers    []string
	ConnectionEventsKafkaTopic      string
	ConnectionEventsKafkaBatchSize  int
	ConnectionEventsKafkaBatchBytes int
	KafkaUsername                   string
	KafkaPassword                   string
	KafkaSASLMechanism              string
	KafkaCA                         string
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", URL_PATH_PREFIX, c.UrlPathPrefix)
	fmt.Fprintf(&b, "%s: %s\n", URL_APP_NAME, c.UrlAppName)
	fmt.Fprintf(&b, "%s: %s\n", URL_BASE_PATH, c.UrlBasePath)
	fmt.Fprintf(&b, "%s: %s\n", HTTP_SHUTDOWN_TIMEOUT, c.HttpShutdownTimeout)
	fmt.Fprintf(&b, "%s: %t\n", PROFILE, c.Profile)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_TABLE_IMPL, c.ConnectionTableImpl)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_DATABASE_HOST, c.ConnectionDatabaseHost)
	fmt.Fprintf(&b, "%s: %d\n", CONNECTION_DATABASE_PORT, c.ConnectionDatabasePort)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_DATABASE_NAME, c.ConnectionDatabaseName)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_DATABASE_SSL_MODE, c.ConnectionDatabaseSslMode)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_DATABASE_QUERY_TIMEOUT, c.ConnectionDatabaseQueryTimeout)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_EVENTS_IMPL, c.ConnectionEventsImpl)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_EVENTS_BROKERS, c.ConnectionEventsKafkaBrokers)
	fmt.Fprintf(&b, "%s: %s\n", CONNECTION_EVENTS_TOPIC, c.ConnectionEventsKafkaTopic)
	fmt.Fprintf(&b, "%s: %d\n", CONNECTION_EVENTS_BATCH_SIZE, c.ConnectionEventsKafkaBatchSize)
	fmt.Fprintf(&b, "%s: %d\n", CONNECTION_EVENTS_BATCH_BYTES, c.ConnectionEventsKafkaBatchBytes)

	return b.String()
}

func GetConfig() *Config {
	options := viper.New()

	options.SetDefault(URL_PATH_PREFIX, "api")
	options.SetDefault(URL_APP_NAME, "connection-catalog")
	options.SetDefault(HTTP_SHUTDOWN_TIMEOUT, 2)
	options.SetDefault(SERVICE_TO_SERVICE_CREDENTIALS, "")
	options.SetDefault(PROFILE, false)
	options.SetDefault(CONNECTION_TABLE_IMPL, "postgres")
	options.SetDefault(CONNECTION_DATABASE_HOST, "localhost")
	options.SetDefault(CONNECTION_DATABASE_PORT, 5432)
	options.SetDefault(CONNECTION_DATABASE_USER, "insights")
	options.SetDefault(CONNECTION_DATABASE_PASSWORD, "insights")
	options.SetDefault(CONNECTION_DATABASE_NAME, "connection-catalog")
	options.SetDefault(CONNECTION_DATABASE_SSL_MODE, "disable")
	options.SetDefault(CONNECTION_DATABASE_SSL_ROOT_CERT, "db_ssl_root_cert.pem")
	options.SetDefault(CONNECTION_DATABASE_QUERY_TIMEOUT, 5)
	options.SetDefault(CONNECTION_EVENTS_IMPL, "fake")
	options.SetDefault(CONNECTION_EVENTS_BROKERS, []string{DEFAULT_KAFKA_BROKER_ADDRESS})
	options.SetDefault(CONNECTION_EVENTS_TOPIC, "platform.connection-catalog.events")
	options.SetDefault(CONNECTION_EVENTS_BATCH_SIZE, 100)
	options.SetDefault(CONNECTION_EVENTS_BATCH_BYTES, 1048576)
	options.SetDefault(KAFKA_USERNAME, "")
	options.SetDefault(KAFKA_PASSWORD, "")
	options.SetDefault(KAFKA_SASL_MECHANISM, "")
	options.SetDefault(KAFKA_CA, "")

	options.SetEnvPrefix(ENV_PREFIX)
	options.AutomaticEnv()

	return &Config{
		UrlPathPrefix:                   options.GetString(URL_PATH_PREFIX),
		UrlAppName:                      options.GetString(URL_APP_NAME),
		UrlBasePath:                     buildUrlBasePath(options.GetString(URL_PATH_PREFIX), options.GetString(URL_APP_NAME)),
		HttpShutdownTimeout:             options.GetDuration(HTTP_SHUTDOWN_TIMEOUT) * time.Second,
		ServiceToServiceCredentials:     options.GetStringMap(SERVICE_TO_SERVICE_CREDENTIALS),
		Profile:                         options.GetBool(PROFILE),
		ConnectionTableImpl:             options.GetString(CONNECTION_TABLE_IMPL),
		ConnectionDatabaseHost:          options.GetString(CONNECTION_DATABASE_HOST),
		ConnectionDatabasePort:          options.GetInt(CONNECTION_DATABASE_PORT),
		ConnectionDatabaseUser:          options.GetString(CONNECTION_DATABASE_USER),
		ConnectionDatabasePassword:      options.GetString(CONNECTION_DATABASE_PASSWORD),
		ConnectionDatabaseName:          options.GetString(CONNECTION_DATABASE_NAME),
		ConnectionDatabaseSslMode:       options.GetString(CONNECTION_DATABASE_SSL_MODE),
		ConnectionDatabaseSslRootCert:   options.GetString(CONNECTION_DATABASE_SSL_ROOT_CERT),
		ConnectionDatabaseQueryTimeout:  options.GetDuration(CONNECTION_DATABASE_QUERY_TIMEOUT) * time.Second,
		ConnectionEventsImpl:            options.GetString(CONNECTION_EVENTS_IMPL),
		ConnectionEventsKafkaBrokers:    options.GetStringSlice(CONNECTION_EVENTS_BROKERS),
		ConnectionEventsKafkaTopic:      options.GetString(CONNECTION_EVENTS_TOPIC),
		ConnectionEventsKafkaBatchSize:  options.GetInt(CONNECTION_EVENTS_BATCH_SIZE),
		ConnectionEventsKafkaBatchBytes: options.GetInt(CONNECTION_EVENTS_BATCH_BYTES),
		KafkaUsername:                   options.GetString(KAFKA_USERNAME),
		KafkaPassword:                   options.GetString(KAFKA_PASSWORD),
		KafkaSASLMechanism:              options.GetString(KAFKA_SASL_MECHANISM),
		KafkaCA:                         options.GetString(KAFKA_CA),
	}
}

func buildUrlBasePath(pathPrefix string, appName string) string {
	return fmt.Sprintf("/%s/%s/v1", pathPrefix, appName)
}
