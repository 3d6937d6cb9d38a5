// seed carga un catálogo inicial de productos para un tenant desde un archivo JSON.
//
// Uso: go run ./cmd/seed -tenant <tenant_id> [-file catalog.json]
// El archivo es un arreglo de objetos con la forma de POST /api/products.
// Los productos que ya existen (misma clave canónica de nombre) se omiten.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/inventory"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/billstock-api/pkg/config"
	"github.com/jhoicas/billstock-api/pkg/logger"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant destino (obligatorio)")
	file := flag.String("file", "catalog.json", "archivo JSON con el catálogo")
	flag.Parse()
	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "falta -tenant")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer catálogo")
	}
	var catalog []dto.CreateProductRequest
	if err := json.Unmarshal(raw, &catalog); err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("decodificar catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar schema")
	}

	uc := inventory.NewProductUseCase(postgres.NewProductRepository(pool))
	var created, skipped int
	for _, in := range catalog {
		if _, err := uc.Create(ctx, *tenantID, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			log.Error().Err(err).Str("product", in.Name).Msg("crear producto")
			continue
		}
		created++
	}
	log.Info().Str("tenant_id", *tenantID).Int("created", created).Int("skipped", skipped).Msg("catálogo cargado")
}
