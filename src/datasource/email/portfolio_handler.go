// portfolio_handler.go
package email

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"RapidESGDataInsights/src/datasource/file"
	"RapidESGDataInsights/src/storage"
)

// ====================== 组合邮件处理器 ======================

// PortfolioHandler 保存组合工作簿附件并提取国家编码
type PortfolioHandler struct {
	TargetSubject string          // 目标邮件主题关键词
	DataDir       string          // 附件保存目录
	processedUIDs map[uint32]bool // 已处理邮件UID记录
	mu            sync.RWMutex
}

func NewPortfolioHandler(subject, dataDir string) *PortfolioHandler {
	return &PortfolioHandler{
		TargetSubject: subject,
		DataDir:       dataDir,
		processedUIDs: make(map[uint32]bool),
	}
}

// isProcessed 检查邮件是否已处理过（线程安全）
func (h *PortfolioHandler) isProcessed(uid uint32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.processedUIDs[uid]
}

// markAsProcessed 标记邮件为已处理（线程安全）
func (h *PortfolioHandler) markAsProcessed(uid uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.processedUIDs[uid] = true
}

// Handle 处理单个组合邮件
// 保存xlsx附件到数据目录，并返回其中的国家编码清单
func (h *PortfolioHandler) Handle(e *Email, logger *storage.Logger) ([]string, error) {
	if e == nil || h.isProcessed(e.UID) {
		return nil, nil
	}

	if !strings.Contains(e.Subject, h.TargetSubject) {
		logger.Debug(fmt.Sprintf("跳过主题不匹配的邮件: %s", e.Subject))
		return nil, nil
	}

	if err := os.MkdirAll(h.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("创建目录失败: %w", err)
	}

	var codes []string
	for _, attachment := range e.Attachments {
		// 只处理XLSX文件
		if filepath.Ext(attachment.Filename) != ".xlsx" {
			continue
		}

		filePath := filepath.Join(h.DataDir, attachment.Filename)
		if err := os.WriteFile(filePath, attachment.Content, 0644); err != nil {
			return nil, fmt.Errorf("保存附件失败: %w", err)
		}
		logger.Info(fmt.Sprintf("组合附件已保存到: %s", filePath))

		df, err := file.ReadPortfolioBytes(attachment.Content)
		if err != nil {
			return nil, err
		}

		codes, err = file.PortfolioCodes(df)
		if err != nil {
			return nil, err
		}

		h.markAsProcessed(e.UID)
		break
	}

	if codes == nil {
		return nil, fmt.Errorf("邮件 %s 没有可用的xlsx附件", e.Subject)
	}

	logger.Info(fmt.Sprintf("组合共包含 %d 个国家", len(codes)))
	return codes, nil
}
