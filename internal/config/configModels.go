package config

import "time"

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HttpServer HttpServerConfig `yaml:"httpServer" env-required:"true"`
	DBConfig   DBConfig         `yaml:"db" env-required:"true"`
	Federation FederationConfig `yaml:"federation"`
	Geo        GeoConfig        `yaml:"geo"`
	Series     SeriesConfig     `yaml:"series"`
}

type HttpServerConfig struct {
	Address string        `yaml:"address" env-default:"localhost"`
	Port    string        `yaml:"port" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
	Secret  string        `yaml:"secret" env:"HTTP_SECRET" env-required:"true"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
}

// PeerConfig names a federation peer whose searchable export we pull.
type PeerConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type FederationConfig struct {
	// NodeURL is this deployment's public address; it stamps locally
	// created Searchable rows and absolutizes relative image URLs.
	NodeURL       string       `yaml:"nodeUrl" env:"FEDERATION_NODE_URL" env-default:"https://127.0.0.1:8000"`
	Peers         []PeerConfig `yaml:"peers"`
	JobBufferSize int          `yaml:"jobBufferSize" env:"FEDERATION_JOB_BUFFER_SIZE" env-default:"10"`
	WorkersCount  int          `yaml:"workersCount" env:"FEDERATION_WORKERS_COUNT" env-default:"2"`
	Timeout       int          `yaml:"timeout" env:"FEDERATION_TIMEOUT" env-default:"60"` //in seconds
	SyncSchedule  string       `yaml:"syncSchedule" env:"FEDERATION_SYNC_SCHEDULE" env-default:"@hourly"`
}

type GeoConfig struct {
	IPStackAccessKey string `yaml:"ipstackAccessKey" env:"IPSTACK_ACCESS_KEY" env-default:""`
	CacheSize        int    `yaml:"cacheSize" env:"IPSTACK_CACHE_SIZE" env-default:"1000"`
	// DebugIP substitutes for localhost clients in development.
	DebugIP string `yaml:"debugIp" env:"DEBUG_IP" env-default:"8.8.8.8"`
}

type SeriesConfig struct {
	SweepSchedule string `yaml:"sweepSchedule" env:"SERIES_SWEEP_SCHEDULE" env-default:"@every 30m"`
}
