// webhookpush.go
package datapush

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"RapidESGDataInsights/src/processor"
	"RapidESGDataInsights/src/storage"
)

// 常量定义
const (
	RETRY_TIMES    = 5
	RETRY_INTERVAL = 2 * time.Second
	PUSH_TIMEOUT   = 10 * time.Second
)

// WebhookResponse 推送接口响应结构体
type WebhookResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// markdownMessage 钉钉风格的markdown消息体
type markdownMessage struct {
	MsgType  string `json:"msgtype"`
	Markdown struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"markdown"`
}

// Pusher 分析完成后向Webhook推送摘要
type Pusher struct {
	webhookURL string
	client     *http.Client
	logger     *storage.Logger
}

func NewPusher(webhookURL string, logger *storage.Logger) *Pusher {
	return &Pusher{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: PUSH_TIMEOUT,
		},
		logger: logger,
	}
}

// PushResult 推送分析结果摘要，失败时按固定间隔重试
func (p *Pusher) PushResult(result *processor.Result) error {
	if p.webhookURL == "" {
		return fmt.Errorf("未配置Webhook地址")
	}

	msg := buildSummaryMessage(result)

	var lastErr error
	for i := 0; i < RETRY_TIMES; i++ {
		if i > 0 {
			time.Sleep(RETRY_INTERVAL)
			p.logger.Warning(fmt.Sprintf("推送重试第 %d 次", i))
		}

		if err := p.send(msg); err != nil {
			lastErr = err
			continue
		}

		p.logger.Info("分析摘要推送成功")
		return nil
	}

	return fmt.Errorf("推送失败(重试%d次): %w", RETRY_TIMES, lastErr)
}

func (p *Pusher) send(msg *markdownMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	resp, err := p.client.Post(p.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("推送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("响应异常代码%d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取推送响应失败: %w", err)
	}

	var result WebhookResponse
	if err := json.Unmarshal(body, &result); err != nil {
		// 非钉钉风格接口可能返回空body，POST成功即视为送达
		return nil
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("推送被拒绝: %s", result.ErrMsg)
	}

	return nil
}

// buildSummaryMessage 拼装markdown摘要消息
func buildSummaryMessage(result *processor.Result) *markdownMessage {
	var bestLine, worstLine string
	if len(result.Rows) > 0 {
		best := processor.NSmallest(result.Rows, 1)[0]
		worst := processor.NLargest(result.Rows, 1)[0]
		bestLine = fmt.Sprintf("- 最佳: %s (%.3f)\n", best.Country, best.Ratio)
		worstLine = fmt.Sprintf("- 最差: %s (%.3f)\n", worst.Country, worst.Ratio)
	}

	msg := &markdownMessage{MsgType: "markdown"}
	msg.Markdown.Title = "ESG分析报告已生成"
	msg.Markdown.Text = fmt.Sprintf(
		"### ESG分析报告已生成\n"+
			"- 时间: %s\n"+
			"- 国家数: %d\n"+
			"- 比值中位数: %.3f\n"+
			"- Leaders: %d / Laggards: %d\n"+
			"%s%s",
		time.Now().Format("2006-01-02 15:04:05"),
		len(result.Rows),
		result.Median,
		len(result.Leaders()),
		len(result.Laggards()),
		bestLine,
		worstLine,
	)
	return msg
}
