package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"cbtrader/pkg/types"
)

var Env = Environment{}

type Environment struct {
	EnvName types.EnvName
}

func init() {
	godotenv.Load()
	switch env := strings.ToLower(os.Getenv("ENVIRONMENT")); env {
	case "prod", "production":
		Env.EnvName = types.EnvProd
	case "dev", "staging":
		Env.EnvName = types.EnvDev
	default:
		Env.EnvName = types.EnvLocal
	}
}
