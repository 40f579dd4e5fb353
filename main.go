package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"RapidESGDataInsights/src/config"
	"RapidESGDataInsights/src/datapush"
	"RapidESGDataInsights/src/datasource/email"
	"RapidESGDataInsights/src/datasource/file"
	"RapidESGDataInsights/src/datasource/sample"
	"RapidESGDataInsights/src/datasource/worldbank"
	"RapidESGDataInsights/src/processor"
	"RapidESGDataInsights/src/report"
	"RapidESGDataInsights/src/storage"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	command := "real"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	app := &App{cfg: cfg, dcfg: dcfg, logger: logger}

	switch command {
	case "real":
		if err := app.runReal(nil); err != nil {
			logger.Error(err.Error())
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "sample":
		if err := app.runSample(""); err != nil {
			logger.Error(err.Error())
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "generate":
		if err := app.runGenerate(); err != nil {
			logger.Error(err.Error())
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "serve":
		app.runServe()
	default:
		fmt.Fprintf(os.Stderr, "未知命令: %s (可用: real sample generate serve)\n", command)
		os.Exit(1)
	}
}

// App 持有各命令共享的依赖
type App struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
}

func (a *App) analyzer() *processor.Analyzer {
	indicators := map[string]string{
		"co2": a.dcfg.GetIndicator("co2"),
		"gdp": a.dcfg.GetIndicator("gdp"),
	}
	return processor.NewAnalyzer(indicators, a.logger)
}

// runReal 抓取World Bank真实数据并生成全部报告
// countries非空时只分析组合内的国家
func (a *App) runReal(countries []string) error {
	a.logger.Info("开始World Bank真实数据分析...")
	t1 := time.Now()

	client := worldbank.NewClient(a.cfg, a.dcfg, a.logger)
	result, err := a.analyzer().AnalyzeReal(client, countries)
	if err != nil {
		return fmt.Errorf("真实数据分析失败: %w", err)
	}

	if err := a.writeArtifacts(result); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("真实数据分析完成，耗时 %v", time.Since(t1)))
	return nil
}

// runSample 用样例数据生成全部报告
// csvPath为空时使用数据目录下的默认文件，不存在则先生成
func (a *App) runSample(csvPath string) error {
	a.logger.Info("开始样例数据分析...")

	if csvPath == "" {
		csvPath = filepath.Join(a.cfg.DataDir, sample.FileName)
		if _, err := os.Stat(csvPath); err != nil {
			a.logger.Info("样例数据不存在，先生成")
			if _, err := sample.NewGenerator(a.dcfg).WriteCSV(a.cfg.DataDir); err != nil {
				return err
			}
		}
	}

	df, err := file.ReadSampleCSV(csvPath)
	if err != nil {
		return err
	}

	result, err := a.analyzer().AnalyzeSample(df, nil)
	if err != nil {
		return fmt.Errorf("样例数据分析失败: %w", err)
	}

	return a.writeArtifacts(result)
}

// runGenerate 只生成样例数据文件
func (a *App) runGenerate() error {
	path, err := sample.NewGenerator(a.dcfg).WriteCSV(a.cfg.DataDir)
	if err != nil {
		return err
	}
	a.logger.Info("样例数据已生成: " + path)
	fmt.Println("样例数据已生成:", path)
	return nil
}

// writeArtifacts 输出工作簿、图表与执行摘要，并按配置推送
func (a *App) writeArtifacts(result *processor.Result) error {
	if err := os.MkdirAll(a.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	workbookPath, err := report.WriteWorkbook(result, a.cfg.OutputDir)
	if err != nil {
		return err
	}
	a.logger.Info("工作簿已生成: " + workbookPath)

	chartPaths, err := report.WriteCharts(result, a.cfg.OutputDir)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("图表已生成 %d 张", len(chartPaths)))

	briefPath, brief, err := report.WriteBrief(result, a.cfg.OutputDir)
	if err != nil {
		return err
	}
	a.logger.Info("执行摘要已生成: " + briefPath)

	// 推送与邮件投递都是可选项，失败只记录不中断
	if a.cfg.Push.Enable {
		pusher := datapush.NewPusher(a.cfg.Push.WebhookURL, a.logger)
		if err := pusher.PushResult(result); err != nil {
			a.logger.Error("推送失败: " + err.Error())
		}
	}

	if a.cfg.SendEmail.To != "" {
		attachments := append([]string{workbookPath, briefPath}, chartPaths...)
		if err := email.SendReport(a.cfg, "ESG分析报告", brief, attachments); err != nil {
			a.logger.Error("报告邮件发送失败: " + err.Error())
		} else {
			a.logger.Info("报告邮件已发送至 " + a.cfg.SendEmail.To)
		}
	}

	return nil
}

// runServe 常驻模式：定时刷新 + 数据目录监控 + 组合邮件 + 日志页面
func (a *App) runServe() {
	c := cron.New()

	// 定时刷新真实数据分析
	interval := time.Duration(a.cfg.Serve.RefreshInterval).String()
	refreshSpec := fmt.Sprintf("@every %s", interval)
	if err := c.AddFunc(refreshSpec, func() {
		a.logger.Info(fmt.Sprintf("定时刷新开始(间隔: %v)...", interval))
		if err := a.logger.CheckRotate(a.cfg); err != nil {
			a.logger.Warning("日志轮转失败: " + err.Error())
		}
		if err := a.runReal(nil); err != nil {
			a.logger.Error("定时刷新失败: " + err.Error())
		}
	}); err != nil {
		a.logger.Error("创建定时任务失败: " + err.Error())
		return
	}

	// 组合邮件检查
	if a.cfg.Email.Username != "" {
		emailClient := email.NewEmailClient(
			a.cfg.Email.Server,
			a.cfg.Email.Username,
			a.cfg.Email.Password)
		handler := email.NewPortfolioHandler(a.cfg.Email.TargetSubject, a.cfg.DataDir)

		mailSpec := fmt.Sprintf("@every %s", time.Duration(a.cfg.Email.CheckInterval).String())
		if err := c.AddFunc(mailSpec, func() {
			a.checkPortfolioMail(emailClient, handler)
		}); err != nil {
			a.logger.Error("创建邮件检查任务失败: " + err.Error())
		}
	}

	c.Start()
	defer c.Stop()

	// 数据目录监控：analysts把csv/xlsx丢进目录即可触发样例分析
	if err := os.MkdirAll(a.cfg.DataDir, 0755); err == nil {
		go a.watchDataDir()
	} else {
		a.logger.Error("创建数据目录失败: " + err.Error())
	}

	// 日志页面
	go a.startWebUI()

	a.logger.Info(fmt.Sprintf("ESG分析服务已启动(刷新间隔: %v)，按Ctrl+C退出", interval))
	a.waitForShutdown()
}

// checkPortfolioMail 收取组合邮件并按组合国家重新分析
func (a *App) checkPortfolioMail(client *email.EmailClient, handler *email.PortfolioHandler) {
	e, err := email.CheckPortfolioEmails(client, a.cfg.Email.TargetSubject, a.logger)
	if err != nil {
		a.logger.Error("检查组合邮件失败: " + err.Error())
		return
	}
	if e == nil {
		return
	}

	codes, err := handler.Handle(e, a.logger)
	if err != nil {
		a.logger.Error(fmt.Sprintf("处理组合邮件失败(UID:%d): %v", e.UID, err))
		return
	}
	if codes == nil {
		return
	}

	if err := a.runReal(codes); err != nil {
		a.logger.Error("组合分析失败: " + err.Error())
	}
}

// watchDataDir 监控数据目录里新落盘的样例数据文件
func (a *App) watchDataDir() {
	monitor, err := file.NewFileMonitor(a.cfg.DataDir)
	if err != nil {
		a.logger.Error("创建文件监控失败: " + err.Error())
		return
	}
	defer monitor.Close()

	err = monitor.Watch(func(filePath string) {
		a.logger.Info("检测到新数据文件: " + filePath)
		switch filepath.Ext(filePath) {
		case ".csv":
			if err := a.runSample(filePath); err != nil {
				a.logger.Error("数据文件分析失败: " + err.Error())
			}
		case ".xlsx":
			// 落盘的组合工作簿按组合国家重新分析真实数据
			codes, err := file.PortfolioCodesFromFile(filePath)
			if err != nil {
				a.logger.Error("读取组合工作簿失败: " + err.Error())
				return
			}
			if err := a.runReal(codes); err != nil {
				a.logger.Error("组合分析失败: " + err.Error())
			}
		}
	})
	if err != nil {
		a.logger.Error("文件监控出错: " + err.Error())
	}
}

// startWebUI 启动一个简单的Web界面来显示实时日志
func (a *App) startWebUI() {
	http.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Transfer-Encoding", "chunked")

		logChan := a.logger.Subscribe()
		defer a.logger.Unsubscribe(logChan)

		for {
			select {
			case msg := <-logChan:
				if _, err := fmt.Fprintln(w, msg); err != nil {
					return
				}
				if f, ok := w.(http.Flusher); ok {
					f.Flush()
				}
			case <-r.Context().Done():
				return
			}
		}
	})

	if err := http.ListenAndServe(a.cfg.Serve.ListenAddr, nil); err != nil {
		a.logger.Error("日志页面启动失败: " + err.Error())
	}
}

func (a *App) waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info("Received signal: " + sig.String() + ", shutting down...")
}
