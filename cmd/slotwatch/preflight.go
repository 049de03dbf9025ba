package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/slotwatch/internal/domain"
	"github.com/hamed0406/slotwatch/internal/notify"
	"github.com/hamed0406/slotwatch/internal/probe"
)

var errPreflightFailed = errors.New("preflight failed")

func newPreflightCmd(load loader) *cobra.Command {
	var sendTest bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check configuration, DNS and one upstream probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			failed := false
			fail := func(msg string) {
				fmt.Fprintln(errOut, "✖", msg)
				failed = true
			}
			warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }
			ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }

			cfg, err := load()
			if err != nil {
				fail(err.Error())
				return errPreflightFailed
			}
			if err := cfg.Validate(); err != nil {
				fail(err.Error())
				return errPreflightFailed
			}
			ok(fmt.Sprintf("config valid (unit=%s service=%s)", cfg.Unit, cfg.Service))

			if cfg.SlackWebhook == "" {
				warn("SLACK_WEBHOOK_URL empty; alerts go to Telegram only.")
			} else {
				ok("SLACK_WEBHOOK_URL present")
			}
			if cfg.Addr != "" && len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
				warn("API_ADDR set without PUBLIC_API_KEYS/ADMIN_API_KEYS; status API is open.")
			}
			for name, keys := range map[string][]string{"ADMIN_API_KEYS": cfg.AdminAPIKeys, "PUBLIC_API_KEYS": cfg.PublicAPIKeys} {
				for _, k := range keys {
					if strings.ContainsAny(k, " \t") {
						warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
						break
					}
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			if tg := notify.NewTelegram(cfg.TelegramAPIBase, cfg.TelegramToken, cfg.ChatID); tg != nil {
				if name, err := tg.Check(ctx); err != nil {
					fail("telegram token: " + err.Error())
				} else {
					ok("telegram bot @" + name)
				}
			}

			dns := probe.CheckDNS(ctx, cfg.UpstreamURL)
			if dns.Class == probe.DNSResolves {
				ok(fmt.Sprintf("%s resolves to %v", dns.Host, dns.IPs))
			} else {
				fail(fmt.Sprintf("%s: %s %s", dns.Host, dns.Class, dns.ResolverError))
			}

			sel, err := newSelector(cfg)
			if err != nil {
				fail(err.Error())
				return errPreflightFailed
			}
			list, err := sel.Select(cfg.Dates)
			if err != nil || len(list) == 0 {
				fail(fmt.Sprintf("no candidate dates: %v", err))
			} else {
				d := list[0]
				exec := newExecutor(zap.NewNop(), cfg)
				raw, err := exec.Execute(ctx, domain.ProbeRequest{Unit: cfg.Unit, Service: cfg.Service, Date: d})
				if err != nil {
					fail(fmt.Sprintf("probe %s: %v", d, err))
				} else {
					o := probe.Interpret(raw.Body)
					ok(fmt.Sprintf("probe %s %s: %s (%s)", d, d.WeekdayCode(), o.Verdict, o.Message))
				}
			}

			if sendTest {
				err := newNotifier(cfg).Send(ctx, "slotwatch test", "Preflight test message for unit "+cfg.Unit+", service "+cfg.Service+".")
				if err != nil {
					fail("test alert: " + err.Error())
				} else {
					ok("test alert sent")
				}
			}

			if failed {
				return errPreflightFailed
			}
			ok("preflight passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&sendTest, "send-test", false, "send a test message through every configured channel")
	return cmd
}
