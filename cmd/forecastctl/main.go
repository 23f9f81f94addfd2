package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/bootstrap"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/infrastructure/postgres"
	"github.com/ConnectRajiv/Predictive-Reorder-System/pkg/config"
	"github.com/ConnectRajiv/Predictive-Reorder-System/pkg/jwt"
	"github.com/ConnectRajiv/Predictive-Reorder-System/pkg/logger"
)

type containerKey struct{}

func daysFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "days",
		Usage:   "Ventana de consumo en días (0 = FORECAST_WINDOW_DAYS)",
		Value:   0,
		EnvVars: []string{"FORECAST_DAYS"},
	}
}

// loadConfig carga la configuración y el logger antes de cualquier comando.
func loadConfig(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "forecastctl"})
	c.App.Metadata["config"] = cfg
	return nil
}

func appConfig(c *cli.Context) *config.Config {
	cfg, _ := c.App.Metadata["config"].(*config.Config)
	return cfg
}

func initContainer(c *cli.Context) error {
	container, err := bootstrap.New(c.Context, appConfig(c))
	if err != nil {
		return err
	}
	c.Context = context.WithValue(c.Context, containerKey{}, container)
	return nil
}

func closeContainer(c *cli.Context) error {
	if container, ok := c.Context.Value(containerKey{}).(*bootstrap.Container); ok && container != nil {
		container.Close()
	}
	return nil
}

func containerFrom(c *cli.Context) *bootstrap.Container {
	container, _ := c.Context.Value(containerKey{}).(*bootstrap.Container)
	return container
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	app := &cli.App{
		Name:     "forecastctl",
		Usage:    "Operaciones del motor de pronóstico de reabastecimiento",
		Metadata: map[string]interface{}{},
		Before:   loadConfig,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Aplica el esquema de base de datos",
				Before: initContainer,
				After:  closeContainer,
				Action: func(c *cli.Context) error {
					return postgres.Migrate(c.Context, containerFrom(c).Pool)
				},
			},
			{
				Name:   "recompute",
				Usage:  "Recalcula y guarda el pronóstico de todos los productos activos",
				Flags:  []cli.Flag{daysFlag()},
				Before: initContainer,
				After:  closeContainer,
				Action: func(c *cli.Context) error {
					res := containerFrom(c).Predictions.CalculateAll(c.Context, c.Int("days"))
					fmt.Fprintf(os.Stdout, "ok=%d fallidos=%d alertas=%d\n", res.Succeeded, res.Failed, res.AlertsEmitted)
					return nil
				},
			},
			{
				Name:   "sweep-low-stock",
				Usage:  "Evalúa la regla de stock bajo para todos los productos",
				Before: initContainer,
				After:  closeContainer,
				Action: func(c *cli.Context) error {
					n, err := containerFrom(c).Predictions.SweepLowStock(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stdout, "alertas emitidas: %d\n", n)
					return nil
				},
			},
			{
				Name:      "forecast",
				Usage:     "Calcula el pronóstico de un producto sin guardarlo",
				ArgsUsage: "<product-id>",
				Flags:     []cli.Flag{daysFlag()},
				Before:    initContainer,
				After:     closeContainer,
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("uso: forecastctl forecast <product-id>", 2)
					}
					out, err := containerFrom(c).Predictions.Forecast(c.Context, c.Args().First(), c.Int("days"))
					if err != nil {
						return err
					}
					return printJSON(out)
				},
			},
			{
				Name:  "report",
				Usage: "Genera el reporte de reabastecimiento en PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Archivo de salida",
						Value: fmt.Sprintf("reorder-report-%s.pdf", time.Now().Format("20060102")),
					},
				},
				Before: initContainer,
				After:  closeContainer,
				Action: func(c *cli.Context) error {
					pdf, err := containerFrom(c).Predictions.ReorderReport(c.Context)
					if err != nil {
						return err
					}
					if err := os.WriteFile(c.String("out"), pdf, 0o644); err != nil {
						return fmt.Errorf("escribir reporte: %w", err)
					}
					fmt.Fprintf(os.Stdout, "reporte escrito en %s\n", c.String("out"))
					return nil
				},
			},
			{
				Name:  "token",
				Usage: "Emite un JWT de servicio firmado con JWT_SECRET",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "ID de usuario", Required: true},
					&cli.StringFlag{Name: "role", Usage: "admin | planner | viewer", Value: jwt.RoleViewer},
					&cli.IntFlag{Name: "exp", Usage: "Expiración en minutos (0 = JWT_EXPIRATION_MINUTES)"},
				},
				Action: func(c *cli.Context) error {
					cfg := appConfig(c)
					switch c.String("role") {
					case jwt.RoleAdmin, jwt.RolePlanner, jwt.RoleViewer:
					default:
						return cli.Exit("rol inválido: "+c.String("role"), 2)
					}
					exp := c.Int("exp")
					if exp <= 0 {
						exp = cfg.JWT.Expiration
					}
					tok, err := jwt.Generate(cfg.JWT.Secret, c.String("user"), c.String("role"), cfg.JWT.Issuer, exp)
					if err != nil {
						return err
					}
					fmt.Fprintln(os.Stdout, tok)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
