package selenium

import (
	"fmt"
	"strings"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/domain/failure"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

const DefaultPort = 9515

// Service is a driver binary running as a local WebDriver endpoint.
type Service struct {
	svc     *selenium.Service
	browser entity.BrowserType
	port    int
}

// StartService launches the driver binary at driverPath listening on port.
func StartService(browser entity.BrowserType, driverPath string, port int) (*Service, error) {
	if driverPath == "" {
		return nil, failure.Newf(failure.KindConfiguration, "start service", "driver path is empty")
	}
	if port <= 0 {
		port = DefaultPort
	}

	var (
		svc *selenium.Service
		err error
	)
	switch browser {
	case entity.BrowserChrome:
		svc, err = selenium.NewChromeDriverService(driverPath, port)
	case entity.BrowserFirefox:
		svc, err = selenium.NewGeckoDriverService(driverPath, port)
	default:
		return nil, failure.Newf(failure.KindUnsupported, "start service", "unsupported browser %q", browser)
	}
	if err != nil {
		return nil, failure.New(failure.KindDriver, "start service", err)
	}
	return &Service{svc: svc, browser: browser, port: port}, nil
}

// URL is the WebDriver endpoint of the running service.
func (s *Service) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

func (s *Service) Stop() error {
	if s == nil || s.svc == nil {
		return nil
	}
	return s.svc.Stop()
}

// Capabilities builds the session capabilities for browser.
func Capabilities(browser entity.BrowserType, headless bool) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": string(browser)}
	switch browser {
	case entity.BrowserChrome:
		args := []string{"--no-first-run", "--disable-dev-shm-usage"}
		if headless {
			args = append(args, "--headless=new")
		}
		caps.AddChrome(chrome.Capabilities{Args: args})
	case entity.BrowserFirefox:
		var args []string
		if headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Args: args})
	}
	return caps
}

// Connect opens a WebDriver session against url, a local service or a remote grid.
func Connect(browser entity.BrowserType, url string, headless bool, logger output.LoggerPort) (*Browser, error) {
	if !browser.Valid() {
		return nil, failure.Newf(failure.KindUnsupported, "connect", "unsupported browser %q", browser)
	}
	if strings.TrimSpace(url) == "" {
		return nil, failure.Newf(failure.KindConfiguration, "connect", "webdriver url is empty")
	}

	wd, err := selenium.NewRemote(Capabilities(browser, headless), url)
	if err != nil {
		return nil, failure.New(failure.KindDriver, "connect", err)
	}
	if logger != nil {
		logger.Info("webdriver session opened", "browser", string(browser), "url", url)
	}
	return NewBrowser(wd, browser), nil
}
