// sender.go
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"

	"RapidESGDataInsights/src/config"
)

// SendReport 将生成的报告文件作为附件发出
// 附件路径不存在时跳过该附件而不中断发送
func SendReport(c *config.Config, subject, body string, attachments []string) error {
	from := c.SendEmail.Username
	password := c.SendEmail.Password

	if from == "" || c.SendEmail.To == "" {
		return fmt.Errorf("未配置报告收发邮箱")
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("ESG Insights <%s>", from)
	e.To = []string{c.SendEmail.To}
	e.Subject = subject
	e.Text = []byte(body)

	for _, path := range attachments {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("附件添加失败: %w", err)
		}
	}

	// 确保服务器地址包含端口
	smtpAddr := c.SendEmail.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465" // 默认 SSL 端口
	}
	host := strings.Split(smtpAddr, ":")[0]

	// 发送邮件（显式 TLS）
	if err := e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", from, password, host),
		&tls.Config{ServerName: host},
	); err != nil {
		return fmt.Errorf("邮件发送失败: %w (Server: %s)", err, smtpAddr)
	}

	return nil
}
