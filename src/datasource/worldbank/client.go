// client.go
package worldbank

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"RapidESGDataInsights/src/config"
	"RapidESGDataInsights/src/storage"
)

/******************** 接口定义 ********************/

// IndicatorService 指标数据服务接口
type IndicatorService interface {
	// FetchIndicator 按指标编码抓取全部国家的观测值
	// 返回: 观测值列表，错误信息
	FetchIndicator(indicator string) ([]Observation, error)
}

/******************** 数据结构 ********************/

// Observation World Bank API 单条观测值
type Observation struct {
	Indicator struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"indicator"`
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"` // 缺数据时为null
}

// PageMeta 响应首元素中的分页信息
type PageMeta struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage any `json:"per_page"` // API 有时返回字符串
	Total   int `json:"total"`
}

/******************** 客户端实现 ********************/

// Client World Bank Open Data v2 客户端
// API 对单次请求的数据量有限制，按国家逐个抓取
type Client struct {
	baseURL   string
	startYear int
	endYear   int
	perPage   int
	countries []string
	http      *http.Client
	logger    *storage.Logger
}

func NewClient(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) *Client {
	return &Client{
		baseURL:   cfg.WorldBank.BaseURL,
		startYear: cfg.WorldBank.StartYear,
		endYear:   cfg.WorldBank.EndYear,
		perPage:   cfg.WorldBank.PerPage,
		countries: dcfg.Countries(),
		http: &http.Client{
			Timeout: time.Duration(cfg.WorldBank.Timeout),
		},
		logger: logger,
	}
}

// FetchIndicator 按指标编码抓取全部配置国家的观测值
// 单个国家失败只记录警告并跳过，不中断整体抓取
func (c *Client) FetchIndicator(indicator string) ([]Observation, error) {
	var all []Observation

	for _, country := range c.countries {
		obs, err := c.fetchCountry(country, indicator)
		if err != nil {
			c.logger.Warning(fmt.Sprintf("国家 %s 指标 %s 数据获取失败: %v", country, indicator, err))
			continue
		}
		all = append(all, obs...)
	}

	c.logger.Info(fmt.Sprintf("指标 %s 共获取 %d 条记录", indicator, len(all)))
	return all, nil
}

func (c *Client) fetchCountry(country, indicator string) ([]Observation, error) {
	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s", c.baseURL, country, indicator)

	params := url.Values{}
	params.Set("format", "json")
	params.Set("date", fmt.Sprintf("%d:%d", c.startYear, c.endYear))
	params.Set("per_page", strconv.Itoa(c.perPage))

	resp, err := c.http.Get(endpoint + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("响应异常代码%d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	return parseResponse(body)
}

// parseResponse 解析 [分页信息, 观测值数组] 形式的响应
func parseResponse(body []byte) ([]Observation, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	// API 出错时返回只含message的单元素数组
	if len(raw) < 2 {
		return nil, fmt.Errorf("响应缺少数据部分")
	}

	var meta PageMeta
	if err := json.Unmarshal(raw[0], &meta); err != nil {
		return nil, fmt.Errorf("解析分页信息失败: %w", err)
	}

	var obs []Observation
	if err := json.Unmarshal(raw[1], &obs); err != nil {
		return nil, fmt.Errorf("解析观测值失败: %w", err)
	}

	return obs, nil
}

/******************** DataFrame 转换 ********************/

// ToDataFrame 将观测值转为DataFrame，丢弃value为null的记录
// 列: country, country_code, year, <alias>
func ToDataFrame(obs []Observation, alias string) dataframe.DataFrame {
	var (
		countries []string
		codes     []string
		years     []int
		values    []float64
	)

	for _, o := range obs {
		if o.Value == nil || o.CountryISO3 == "" {
			continue
		}
		year, err := strconv.Atoi(o.Date)
		if err != nil {
			continue
		}
		countries = append(countries, o.Country.Value)
		codes = append(codes, o.CountryISO3)
		years = append(years, year)
		values = append(values, *o.Value)
	}

	return dataframe.New(
		series.New(countries, series.String, "country"),
		series.New(codes, series.String, "country_code"),
		series.New(years, series.Int, "year"),
		series.New(values, series.Float, alias),
	)
}
