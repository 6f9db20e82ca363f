// Command-line tooling for operating a Versu deployment
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"versu/versu/config"
	"versu/versu/controllers"
	"versu/versu/services/llm"
	"versu/versu/services/seed"
	"versu/versu/sources/psql"
	"versu/versu/sources/psql/dao"
	"versu/versu/utils/color"
	"versu/versu/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "seed":
		err = runSeed(cfg, args[1:])
	case "check-provider":
		err = runCheckProvider(cfg)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Println(color.Error("✗ " + err.Error()))
		logging.Fatal("command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func usage() {
	fmt.Println(color.Prompt("Versu CLI usage:"))
	fmt.Println("  versu seed [--file prompts.yaml]   # Upsert prompts and the demo user")
	fmt.Println("  versu check-provider               # Verify the LLM API key and model")
}

func runSeed(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	file := fs.String("file", "", "YAML file with prompt definitions (defaults to the built-in set)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	defs, err := loadSeedFile(*file)
	if err != nil {
		return err
	}

	// Covers the connection retries as well as the writes.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectDelay*time.Duration(cfg.DBConnectRetries+1)+time.Minute)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer db.Close()

	n, err := seed.Prompts(ctx, dao.NewPromptDAO(db.DB), defs)
	if err != nil {
		return err
	}
	fmt.Println(color.Info(fmt.Sprintf("✓ %d prompts upserted", n)))

	if cfg.IsProduction() {
		fmt.Println(color.Warning("! demo user skipped in production"))
		return nil
	}
	auth := controllers.NewAuthController(dao.NewUserDAO(db.DB), nil, cfg)
	user, err := auth.EnsureDemoUser(ctx)
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}
	fmt.Println(color.Success(fmt.Sprintf("✓ demo user ready: %s / %s", user.Email, controllers.DemoPassword)))
	return nil
}

func loadSeedFile(path string) (*seed.File, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.Parse(f)
}

func runCheckProvider(cfg config.Config) error {
	if cfg.LLMAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	client := llm.NewGroqClient(cfg)
	fmt.Println(color.Prompt(fmt.Sprintf("Checking %s at %s ...", client.Model(), cfg.LLMBaseURL)))
	if err := client.Validate(context.Background()); err != nil {
		return err
	}
	fmt.Println(color.Success("✓ provider configuration is valid"))
	return nil
}
