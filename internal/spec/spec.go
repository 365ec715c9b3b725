package spec

type stdoutSink struct {
	PrintCounter bool `yaml:"print_counter"`
	Counts       bool `yaml:"counts"`
	ShowIDs      bool `yaml:"show_ids"`
}

type kafkaSink struct {
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	RequiredAcks int16    `yaml:"required_acks"`
	ClientID     string   `yaml:"client_id"`
}

type sinkConfigs struct {
	Kafka  kafkaSink  `yaml:"kafka"`
	Stdout stdoutSink `yaml:"stdout"`
}

type serverSection struct {
	HTTPAddr    string `yaml:"http_addr"`    // e.g. ":8080"; empty uses the default, "-" disables the HTTP view
	GRPCPort    int    `yaml:"grpc_port"`    // 0 uses the default, negative disables gRPC health
	MetricsPort int    `yaml:"metrics_port"` // 0 uses the default, negative disables /metrics
}

type uiSection struct {
	ExpandAll bool   `yaml:"expand_all"` // start with every group expanded
	Theme     string `yaml:"theme"`      // light|dark|auto
	LogFile   string `yaml:"log_file"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Driver string `yaml:"driver"` // http|file; overrides the source config
		Config string `yaml:"config"` // path to the koanf source config
	} `yaml:"source"`

	Sinks       []string      `yaml:"sinks"`
	SinkConfigs sinkConfigs   `yaml:"sink_configs"`
	Server      serverSection `yaml:"server"`
	UI          uiSection     `yaml:"ui"`
}
