package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "TELLERGUARD_CONFIG_PATH"

// Directory configures the Keycloak realm used as the identity provider.
type Directory struct {
	BaseURL  string `yaml:"baseURL"`
	Realm    string `yaml:"realm"`
	ClientID string `yaml:"clientID"`
	// ClientSecret is optional for public clients.
	ClientSecret string `yaml:"clientSecret"`
	// ServiceClientID/ServiceClientSecret identify the confidential service
	// account used for group-membership lookups via the admin API.
	ServiceClientID     string `yaml:"serviceClientID"`
	ServiceClientSecret string `yaml:"serviceClientSecret"`
	// TellerGroup is the group required to enter the application.
	TellerGroup string `yaml:"tellerGroup"`
	// AdminGroup is the group required to approve destructive operations.
	AdminGroup string `yaml:"adminGroup"`
	// RequestTimeout bounds every directory call (e.g. "10s").
	RequestTimeout string `yaml:"requestTimeout"`
	// InsecureSkipVerify disables TLS verification towards Keycloak.
	// Only for test realms.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`
}

// KafkaSASL configures SASL authentication for the Kafka audit sink.
type KafkaSASL struct {
	Mechanism string `yaml:"mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// KafkaTLS configures TLS for the Kafka audit sink.
type KafkaTLS struct {
	Enabled            bool   `yaml:"enabled"`
	CAFile             string `yaml:"caFile"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

// Kafka configures the append-only Kafka audit sink.
type Kafka struct {
	Brokers             []string   `yaml:"brokers"`
	Topic               string     `yaml:"topic"`
	BatchSize           int        `yaml:"batchSize"`
	BatchTimeoutSeconds int        `yaml:"batchTimeoutSeconds"`
	RequiredAcks        int        `yaml:"requiredAcks"`
	Compression         string     `yaml:"compression"`
	Async               bool       `yaml:"async"`
	SASL                *KafkaSASL `yaml:"sasl"`
	TLS                 *KafkaTLS  `yaml:"tls"`
}

// Audit selects and configures the audit sink.
type Audit struct {
	// Sink is "log" or "kafka". Defaults to "log".
	Sink  string `yaml:"sink"`
	Kafka *Kafka `yaml:"kafka"`
}

// Vault configures the key-storage location for the encryption key.
type Vault struct {
	// KeyringService is the OS keyring service name.
	KeyringService string `yaml:"keyringService"`
	// KeyName is the logical name of the AES key inside the service.
	KeyName string `yaml:"keyName"`
}

// Mail configures optional SMTP notification of approval outcomes.
type Mail struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	User           string   `yaml:"user"`
	Password       string   `yaml:"password"`
	SenderAddress  string   `yaml:"senderAddress"`
	SenderName     string   `yaml:"senderName"`
	Recipients     []string `yaml:"recipients"`
	RetryCount     int      `yaml:"retryCount"`
	RetryBackoffMs int      `yaml:"retryBackoffMs"`
	// InsecureSkipVerify disables TLS verification towards the SMTP host.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	// ListenAddress like ":9090". Empty disables the endpoint.
	ListenAddress string `yaml:"listenAddress"`
}

type Config struct {
	Directory Directory `yaml:"directory"`
	Audit     Audit     `yaml:"audit"`
	Vault     Vault     `yaml:"vault"`
	Mail      Mail      `yaml:"mail"`
	Metrics   Metrics   `yaml:"metrics"`
}

// Load reads the configuration from a file path. If configPath is empty it
// defaults to "./config.yaml"; the TELLERGUARD_CONFIG_PATH environment
// variable overrides both.
func Load(configPath ...string) (Config, error) {
	path := "./config.yaml"
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open tellerguard config file %s: %v", path, err)
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Directory.TellerGroup == "" {
		c.Directory.TellerGroup = "Bank Teller"
	}
	if c.Directory.AdminGroup == "" {
		c.Directory.AdminGroup = "Bank Teller Administrator"
	}
	if c.Directory.RequestTimeout == "" {
		c.Directory.RequestTimeout = "10s"
	}
	if c.Audit.Sink == "" {
		c.Audit.Sink = "log"
	}
	if c.Vault.KeyringService == "" {
		c.Vault.KeyringService = "tellerguard"
	}
	if c.Vault.KeyName == "" {
		c.Vault.KeyName = "banking-app-aes-key"
	}
	if c.Mail.RetryCount <= 0 {
		c.Mail.RetryCount = 3
	}
	if c.Mail.RetryBackoffMs <= 0 {
		c.Mail.RetryBackoffMs = 100
	}
}

// Validate checks required fields and cross-field consistency.
func (c *Config) Validate() error {
	if c.Directory.BaseURL == "" {
		return fmt.Errorf("directory.baseURL is required")
	}
	if c.Directory.Realm == "" {
		return fmt.Errorf("directory.realm is required")
	}
	if c.Directory.ClientID == "" {
		return fmt.Errorf("directory.clientID is required")
	}
	if _, err := time.ParseDuration(c.Directory.RequestTimeout); err != nil {
		return fmt.Errorf("directory.requestTimeout %q is not a duration: %v", c.Directory.RequestTimeout, err)
	}
	switch c.Audit.Sink {
	case "log":
	case "kafka":
		if c.Audit.Kafka == nil {
			return fmt.Errorf("audit.kafka is required when audit.sink is kafka")
		}
		if len(c.Audit.Kafka.Brokers) == 0 {
			return fmt.Errorf("audit.kafka.brokers must not be empty")
		}
		if c.Audit.Kafka.Topic == "" {
			return fmt.Errorf("audit.kafka.topic is required")
		}
	default:
		return fmt.Errorf("audit.sink %q is not supported (want log or kafka)", c.Audit.Sink)
	}
	if c.Mail.Host != "" && len(c.Mail.Recipients) == 0 {
		return fmt.Errorf("mail.recipients must not be empty when mail.host is set")
	}
	return nil
}

// DirectoryTimeout returns the parsed directory request timeout.
// Validate guarantees the value parses.
func (c *Config) DirectoryTimeout() time.Duration {
	d, err := time.ParseDuration(c.Directory.RequestTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// MailEnabled reports whether SMTP notification is configured.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != ""
}
