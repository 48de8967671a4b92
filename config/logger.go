package config

// LoggerConfig 日志配置。
type LoggerConfig struct {
	Level            string   `json:"level" yaml:"level" mapstructure:"level"`                                    // debug/info/warn/error
	Encoding         string   `json:"encoding" yaml:"encoding" mapstructure:"encoding"`                           // json/console
	EnableColor      bool     `json:"enableColor" yaml:"enableColor" mapstructure:"enable_color"`                 // console 模式下是否彩色
	Development      bool     `json:"development" yaml:"development" mapstructure:"development"`                  // 开发模式（error 级别附带堆栈）
	OutputPaths      []string `json:"outputPaths" yaml:"outputPaths" mapstructure:"output_paths"`                 // 普通日志输出
	ErrorOutputPaths []string `json:"errorOutputPaths" yaml:"errorOutputPaths" mapstructure:"error_output_paths"` // 内部错误输出
}

// DefaultLoggerConfig 返回默认日志配置：JSON 输出到 stdout。
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:            "info",
		Encoding:         "json",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}
