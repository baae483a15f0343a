package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/menu"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/render"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/reservation"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/tui"
)

var (
	reservationsDate string

	rootCmd = &cobra.Command{
		Use:           "storefront",
		Short:         "Café Delight storefront: browse the menu, order and reserve a table",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logger, err = newLogger(cfg); err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: runStorefront,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to STOREFRONT_DB_DSN",
		RunE:  runMigrate,
	}

	menuCmd = &cobra.Command{
		Use:   "menu",
		Short: "Print the menu catalog",
		RunE:  runMenu,
	}

	reservationsCmd = &cobra.Command{
		Use:   "reservations",
		Short: "List recorded reservations for a date",
		RunE:  runReservations,
	}
)

func init() {
	reservationsCmd.Flags().StringVar(&reservationsDate, "date", "", "reservation date (YYYY-MM-DD), defaults to today")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(reservationsCmd)
}

func loadCatalog() (*menu.Catalog, error) {
	if cfg.MenuFile == "" {
		return menu.Default()
	}
	return menu.Load(cfg.MenuFile)
}

func runStorefront(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	catalog, err := loadCatalog()
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}

	// durable sinks first; the log line is written only once they accepted
	var recorders []reservation.ServiceOption

	if cfg.DatabaseDSN != "" {
		if cfg.RunMigrations {
			if err := db.RunMigrations(ctx, cfg.DatabaseDSN, logger); err != nil {
				return err
			}
		}

		database, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer database.Close()
		recorders = append(recorders, reservation.WithRecorder(reservation.NewRepository(database)))

		if cfg.RabbitMQURL != "" {
			pub, closeFn, err := newPublisher(database)
			if err != nil {
				return err
			}
			defer closeFn()
			recorders = append(recorders, reservation.WithRecorder(pub))
		}
	} else if cfg.RabbitMQURL != "" {
		logger.Warn("STOREFRONT_RABBITMQ_URL ignored: publishing needs STOREFRONT_DB_DSN for event sequences")
	}

	svc := reservation.NewService(append(recorders,
		reservation.WithRecorder(reservation.NewLogRecorder(logger)),
		reservation.WithServiceLogger(logger),
		reservation.WithRecordTimeout(cfg.RecordTimeout),
	)...)

	model := tui.New(tui.Options{
		Context:       ctx,
		Catalog:       catalog,
		Reservations:  svc,
		Currency:      cfg.Currency,
		FlashDuration: cfg.FlashDuration,
		CartOptions:   []cart.Option{cart.WithMaxQuantity(cfg.MaxQuantity)},
		Logger:        logger,
	})

	logger.Info("storefront starting", zap.Int("menu_items", len(catalog.Items())))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}

	logger.Info("storefront stopped")
	return nil
}

func newPublisher(database *sql.DB) (*events.ReservationPublisher, func(), error) {
	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}

	pub, err := events.NewReservationPublisher(conn, events.NewSequenceStore(database), logger)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("create reservation publisher: %w", err)
	}

	closeFn := func() {
		if err := pub.Close(); err != nil {
			logger.Warn("publisher close error", zap.Error(err))
		}
		if err := conn.Close(); err != nil {
			logger.Warn("rabbitmq close error", zap.Error(err))
		}
	}
	return pub, closeFn, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.DatabaseDSN == "" {
		return db.ErrNoDSN
	}
	if err := db.RunMigrations(cmd.Context(), cfg.DatabaseDSN, logger); err != nil {
		return err
	}
	cmd.Println("migrations applied")
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, it := range catalog.Items() {
		fmt.Fprintf(out, "%3d  %-22s %-10s %s\n",
			it.ID, it.Name, it.Category, render.FormatMoney(cfg.Currency, it.Price))
	}
	return nil
}

func runReservations(cmd *cobra.Command, args []string) error {
	if cfg.DatabaseDSN == "" {
		return db.ErrNoDSN
	}

	date := time.Now()
	if reservationsDate != "" {
		var err error
		if date, err = time.ParseInLocation(reservation.DateLayout, reservationsDate, time.Local); err != nil {
			return fmt.Errorf("invalid --date %q: %w", reservationsDate, err)
		}
	}

	database, err := db.Open(cmd.Context(), cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	list, err := reservation.NewRepository(database).ListByDate(cmd.Context(), date)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintf(out, "no reservations for %s\n", date.Format(reservation.DateLayout))
		return nil
	}
	for _, r := range list {
		fmt.Fprintf(out, "%s  %-5s  %2d guests  %-20s %s\n",
			r.Date.Format(reservation.DateLayout), r.Time, r.Guests, r.Name, r.Email)
	}
	return nil
}
