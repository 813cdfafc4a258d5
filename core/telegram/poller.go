package telegram

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/wasupalonely/appointments-chatbot/core/config"

	tele "gopkg.in/telebot.v4"
)

// BuildPoller returns a Telebot poller based on the configured run mode.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	runMode := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if runMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}
