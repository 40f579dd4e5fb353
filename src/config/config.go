package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	WorldBank struct {
		BaseURL   string   `json:"base_url"`   // World Bank API 根地址
		Timeout   Duration `json:"timeout"`    // 单次请求超时时间
		StartYear int      `json:"start_year"` // 数据起始年份
		EndYear   int      `json:"end_year"`   // 数据结束年份
		PerPage   int      `json:"per_page"`   // 每页记录数
	} `json:"worldbank"`

	Email struct {
		Server        string   `json:"server"`         // 邮件服务器地址
		Username      string   `json:"username"`       // 邮箱用户名
		Password      string   `json:"password"`       // 邮箱密码
		TargetSubject string   `json:"target_subject"` // 需要匹配的邮件主题
		CheckInterval Duration `json:"check_interval"` // 检查新邮件的间隔时间
	} `json:"email"`

	SendEmail struct {
		Server   string `json:"server"`   // SMTP服务器地址
		Username string `json:"username"` // 发件邮箱
		Password string `json:"password"` // 发件密码/授权码
		To       string `json:"to"`       // 报告接收人
	} `json:"send_email"`

	Serve struct {
		RefreshInterval Duration `json:"refresh_interval"` // 定时刷新间隔
		ListenAddr      string   `json:"listen_addr"`      // 日志页面监听地址
	} `json:"serve"`

	Push struct {
		WebhookURL string `json:"webhook_url"` // 推送Webhook地址
		Enable     bool   `json:"enable"`      // 是否开启推送
	} `json:"push"`

	OutputDir  string `json:"output_dir"` // 报告输出目录
	DataDir    string `json:"data_dir"`   // 样例数据目录
	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`
}

// DataConfig 保存数据口径配置：国家清单、指标编码、样例数据分层
type DataConfig struct {
	CountryCodes []string            `json:"countrycodes"` // ISO3编码，顺序即分析顺序
	CountryNames map[string]string   `json:"countrynames"` // 编码到英文名的映射
	Indicators   map[string]string   `json:"indicators"`   // 指标别名到World Bank编码
	SampleTiers  map[string][]string `json:"sampletiers"`  // 样例数据生成用的收入/排放分层
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
// 用于从JSON字符串解析Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
// 用于将Duration序列化为JSON字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// CountryName 按ISO3编码查询国家英文名，查不到时返回编码本身
func (dc *DataConfig) CountryName(code string) string {
	mu.RLock()
	defer mu.RUnlock()
	if name, ok := dc.CountryNames[code]; ok {
		return name
	}
	return code
}

func (dc *DataConfig) GetIndicator(alias string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Indicators[alias]
}

func (dc *DataConfig) SetIndicator(alias, code string) {
	mu.Lock()
	defer mu.Unlock()
	dc.Indicators[alias] = code
}

func (dc *DataConfig) GetSampleTier(name string) []string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.SampleTiers[name]
}

// Countries 返回国家编码清单的副本，避免调用方改动配置
func (dc *DataConfig) Countries() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(dc.CountryCodes))
	copy(out, dc.CountryCodes)
	return out
}
