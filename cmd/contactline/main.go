package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"contactline/internal/config"
	"contactline/internal/contact"
	"contactline/internal/form"
	"contactline/internal/server"
	"contactline/internal/sheets"
	contactsdk "contactline/sdk/go"
)

var rootCmd = &cobra.Command{
	Use:   "contactline",
	Short: "Contactline CLI",
	Long: `Contactline records website contact requests in a Google Sheet.
The server re-validates and sanitizes every submission before appending
one row per request; the sheet's header row is managed out of band.
Secrets come from GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY, and
GOOGLE_SHEET_ID; everything else lives in contactline.yml.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CONTACTLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default contactline.yml)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(submitCmd())
	rootCmd.AddCommand(configCmd())
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the contact API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("config"))
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if basePath != "" {
				cfg.Server.BasePath = basePath
			}
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			var appender sheets.Appender
			if cfg.Google.Complete() {
				appender, err = sheets.New(cmd.Context(), cfg.Google, cfg.Sheet)
				if err != nil {
					return err
				}
			} else {
				logger.Warn("google credentials incomplete; submissions will be refused until configured")
			}

			handler, err := server.New(server.Config{
				Cfg:      cfg,
				Appender: appender,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Contactline API on http://%s%s\n", cfg.Server.Addr, cfg.Server.BasePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (overrides config)")
	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify credentials and sheet access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("config"))
			if err != nil {
				return err
			}
			rows := [][]string{
				{"GOOGLE_CLIENT_EMAIL", presence(cfg.Google.ClientEmail != "")},
				{"GOOGLE_PRIVATE_KEY", presence(cfg.Google.PrivateKey != "")},
				{"GOOGLE_SHEET_ID", presence(cfg.Google.SheetID != "")},
			}
			if !cfg.Google.Complete() {
				printTable([]string{"credential", "status"}, rows)
				return fmt.Errorf("missing credentials; set the environment variables above")
			}
			client, err := sheets.New(cmd.Context(), cfg.Google, cfg.Sheet)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.AppendTimeout())
			defer cancel()
			header, err := client.Header(ctx)
			if err != nil {
				rows = append(rows, []string{"sheet access", "FAILED: " + err.Error()})
				printTable([]string{"credential", "status"}, rows)
				return fmt.Errorf("sheet probe failed")
			}
			rows = append(rows, []string{"sheet access", "ok"})
			rows = append(rows, []string{"header row", strings.Join(header, " | ")})
			printTable([]string{"credential", "status"}, rows)
			return nil
		},
	}
	return cmd
}

func submitCmd() *cobra.Command {
	var baseURL string
	fields := map[string]*string{
		form.FieldName:    new(string),
		form.FieldEmail:   new(string),
		form.FieldPhone:   new(string),
		form.FieldSubject: new(string),
		form.FieldMessage: new(string),
	}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a contact request through a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := contactsdk.New(baseURL)
			f := form.New(sdkSender{client: client})
			for name, value := range fields {
				f.OnFieldChange(name, *value)
			}
			switch status := f.Submit(cmd.Context()); status {
			case form.StatusSuccess:
				if viper.GetBool("json") {
					return printJSON(map[string]any{"status": status, "message": f.Message()})
				}
				fmt.Println(f.Message())
				return nil
			case form.StatusIdle:
				errs := f.Errors()
				keys := make([]string, 0, len(errs))
				for k := range errs {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				rows := make([][]string, 0, len(keys))
				for _, k := range keys {
					rows = append(rows, []string{k, errs[k]})
				}
				printTable([]string{"field", "error"}, rows)
				return fmt.Errorf("submission rejected by local validation")
			default:
				return fmt.Errorf("submission failed; try again later")
			}
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "http://127.0.0.1:8080", "server base URL")
	cmd.Flags().StringVar(fields[form.FieldName], "name", "", "sender name")
	cmd.Flags().StringVar(fields[form.FieldEmail], "email", "", "sender email")
	cmd.Flags().StringVar(fields[form.FieldPhone], "phone", "", "sender phone")
	cmd.Flags().StringVar(fields[form.FieldSubject], "subject", "", "subject (optional)")
	cmd.Flags().StringVar(fields[form.FieldMessage], "message", "", "message body")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("config"))
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{
					"server": cfg.Server,
					"sheet":  cfg.Sheet,
					"google": map[string]string{
						"client_email": presence(cfg.Google.ClientEmail != ""),
						"private_key":  presence(cfg.Google.PrivateKey != ""),
						"sheet_id":     presence(cfg.Google.SheetID != ""),
					},
				})
			}
			printTable([]string{"setting", "value"}, [][]string{
				{"server.addr", cfg.Server.Addr},
				{"server.base_path", cfg.Server.BasePath},
				{"server.append_timeout", cfg.Server.AppendTimeout().String()},
				{"sheet.name", cfg.Sheet.Name},
				{"sheet.timezone", cfg.Sheet.Timezone},
				{"google.client_email", presence(cfg.Google.ClientEmail != "")},
				{"google.private_key", presence(cfg.Google.PrivateKey != "")},
				{"google.sheet_id", presence(cfg.Google.SheetID != "")},
			})
			return nil
		},
	}
	return cmd
}

// --- helpers ---

// sdkSender adapts the HTTP client to the form's Sender contract.
type sdkSender struct {
	client *contactsdk.Client
}

func (s sdkSender) Send(ctx context.Context, sub contact.Submission) (string, error) {
	res, err := s.client.Submit(ctx, contactsdk.Submission{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Subject: sub.Subject,
		Message: sub.Message,
	})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func presence(set bool) string {
	if set {
		return "present"
	}
	return "MISSING"
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	hr := table.Row{}
	for _, h := range header {
		hr = append(hr, h)
	}
	t.AppendHeader(hr)
	for _, row := range rows {
		r := table.Row{}
		for _, cell := range row {
			r = append(r, cell)
		}
		t.AppendRow(r)
	}
	t.Render()
}
