package config

// RelayConfig holds configuration for the outbox relay service.
type RelayConfig struct {
	DatabaseURL string `env:"DB_CONNECTION_STRING,required,notEmpty"`
	RabbitMQURL string `env:"RABBITMQ_URL,required,notEmpty"`
	QueueName   string `env:"REGISTRATION_QUEUE_NAME" envDefault:"volunteer.registrations"`
	HealthAddr  string `env:"RELAY_HEALTH_ADDR" envDefault:":8090"`
}

func LoadRelayConfig() (*RelayConfig, error) {
	loadDotEnv()

	var cfg RelayConfig
	if err := parseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
