// seed carga usuarios, clientes y facturas iniciales del dashboard desde archivos CSV.
//
// Uso: go run ./cmd/seed -users users.csv [-customers customers.csv] [-invoices invoices.csv] [-latin1]
//
// Formatos (con fila de cabecera):
//
//	users.csv      name,email,password
//	customers.csv  id,name,email,image_url
//	invoices.csv   customer_id,amount,status,date   (amount en unidades mayores, date YYYY-MM-DD)
//
// Las contraseñas se guardan con bcrypt; los usuarios existentes se actualizan por email.
// Los clientes duplicados se omiten. Con -latin1 los archivos se leen como ISO-8859-1.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Dashboard-api/internal/application/auth"
	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/Dashboard-api/pkg/config"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

func main() {
	usersPath := flag.String("users", "", "CSV de usuarios (name,email,password)")
	customersPath := flag.String("customers", "", "CSV de clientes (id,name,email,image_url)")
	invoicesPath := flag.String("invoices", "", "CSV de facturas (customer_id,amount,status,date)")
	latin1 := flag.Bool("latin1", false, "leer los CSV como ISO-8859-1")
	flag.Parse()

	if *usersPath == "" && *customersPath == "" && *invoicesPath == "" {
		fmt.Fprintln(os.Stderr, "Indique al menos uno de -users, -customers, -invoices")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	db := postgres.OpenDB(pool)
	defer db.Close()
	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	open := func(path string) (io.ReadCloser, io.Reader) {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("abrir CSV")
		}
		if *latin1 {
			return f, transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
		}
		return f, f
	}

	if *usersPath != "" {
		f, r := open(*usersPath)
		users, err := readUsers(r)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer usuarios")
		}
		repo := postgres.NewUserRepository(pool)
		for _, u := range users {
			hash, err := auth.HashPassword(u.password)
			if err != nil {
				log.Fatal().Err(err).Str("email", u.Email).Msg("hash de contraseña")
			}
			u.PasswordHash = hash
			if u.ID == "" {
				u.ID = uuid.New().String()
			}
			if err := repo.Upsert(ctx, &u.User); err != nil {
				log.Fatal().Err(err).Str("email", u.Email).Msg("guardar usuario")
			}
		}
		log.Info().Int("count", len(users)).Msg("usuarios cargados")
	}

	if *customersPath != "" {
		f, r := open(*customersPath)
		customers, err := readCustomers(r)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer clientes")
		}
		repo := postgres.NewCustomerRepository(pool)
		now := time.Now()
		created := 0
		for _, c := range customers {
			c.CreatedAt, c.UpdatedAt = now, now
			if err := repo.Create(ctx, c); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					log.Warn().Str("customer_id", c.ID).Msg("cliente existente, se omite")
					continue
				}
				log.Fatal().Err(err).Str("customer_id", c.ID).Msg("guardar cliente")
			}
			created++
		}
		log.Info().Int("count", created).Msg("clientes cargados")
	}

	if *invoicesPath != "" {
		f, r := open(*invoicesPath)
		invoices, err := readInvoices(r)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer facturas")
		}
		repo := postgres.NewInvoiceRepository(pool)
		for _, inv := range invoices {
			if err := repo.Create(ctx, inv); err != nil {
				log.Fatal().Err(err).Str("customer_id", inv.CustomerID).Msg("guardar factura")
			}
		}
		log.Info().Int("count", len(invoices)).Msg("facturas cargadas")
	}
}
