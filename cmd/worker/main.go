package main

import (
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/vfg2006/sales-performance-engine/infrastructure/database/postgres"
	"github.com/vfg2006/sales-performance-engine/infrastructure/migration/script"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository/memory"
	"github.com/vfg2006/sales-performance-engine/internal/api"
	"github.com/vfg2006/sales-performance-engine/internal/api/handler"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/events"
	"github.com/vfg2006/sales-performance-engine/internal/metrics"
	"github.com/vfg2006/sales-performance-engine/internal/scheduler"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/consistency"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/ledger"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/membership"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/performance"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/ranking"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/reporting"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/targeting"
)

// engine reúne os serviços montados sobre o armazenamento escolhido
type engine struct {
	repos       repository.Repositories
	calculator  *performance.Calculator
	ranking     *ranking.PerformanceRankingService
	consistency *consistency.Service
	targeting   *targeting.Service
	ledger      *ledger.Service
	membership  *membership.Service
	reporting   reporting.Reporter
}

func main() {
	// Inicializa configuração de logs
	configureLogger()

	opts := parseFlags(os.Args[1:])

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	repos, tx, closeStorage := storage(ctx, cfg)
	defer closeStorage()

	eng := newEngine(cfg, repos, tx, recorder)

	if opts.command != "" {
		if err := runCommand(ctx, eng, cfg, opts, os.Stdout); err != nil {
			logrus.WithError(err).Error("Comando finalizado com erro")
			closeStorage()
			os.Exit(1)
		}
		return
	}

	performanceSyncService := scheduler.NewPerformanceSyncService(eng.consistency, cfg)
	consistencySweepService := scheduler.NewConsistencySweepService(eng.consistency, cfg)

	// Inicia os agendadores em background
	if err := performanceSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de ressincronização de performance")
	} else {
		logrus.Info("Agendador de ressincronização de performance iniciado com sucesso")
	}

	if err := consistencySweepService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de varredura de consistência")
	} else {
		logrus.Info("Agendador de varredura de consistência iniciado com sucesso")
	}

	if !cfg.Metrics.Enabled {
		logrus.Info("Servidor operacional desabilitado por configuração, aguardando sinal de término")
		waitForSignal(ctx)
		return
	}

	server := api.New(ctx, cfg, recorder, handler.JobServices{
		PerformanceSync:  performanceSyncService,
		ConsistencySweep: consistencySweepService,
	})

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func newEngine(cfg *config.Config, repos repository.Repositories, tx repository.Transactor, recorder *metrics.Recorder) *engine {
	bus := events.NewBus()

	calculator := performance.NewCalculator(repos, tx, recorder)
	calculator.Register(bus)

	targetingService := targeting.NewService(repos.Targets, repos.Conversions, repos.Performances, tx, bus)
	targetingService.Register(bus)

	rankingService := ranking.NewPerformanceRankingService(repos.Performances, recorder, cfg.Ranking.RecentMonths)

	return &engine{
		repos:       repos,
		calculator:  calculator,
		ranking:     rankingService,
		targeting:   targetingService,
		ledger:      ledger.NewService(repos.Conversions, repos.Targets, tx, bus),
		membership:  membership.NewService(repos.Directory, bus),
		reporting:   reporting.NewService(repos.Performances),
		consistency: consistency.NewService(
			repos,
			tx,
			calculator,
			rankingService,
			recorder,
			consistency.OptionsFromConfig(cfg.PerformanceSync),
		).WithTargetRefresher(targetingService),
	}
}

// storage escolhe o armazenamento configurado e devolve a função de encerramento
func storage(ctx context.Context, cfg *config.Config) (repository.Repositories, repository.Transactor, func()) {
	if cfg.Storage.Driver == "memory" {
		logrus.Warn("Usando armazenamento em memória, os dados não sobrevivem ao processo")
		store := memory.NewStore()
		return store.Repositories(), store, func() {}
	}

	conn := pgconn(ctx, cfg.Database)
	if err := script.Apply(ctx, conn.DB); err != nil {
		conn.Close()
		logrus.WithError(err).Fatal("Erro ao aplicar o schema do banco de dados")
	}

	return repository.NewRepositories(conn), conn, func() { conn.Close() }
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

type options struct {
	command    string
	targetID   int64
	leadID     int64
	teamID     int64
	userID     int64
	periodType string
	fix        bool
}

func parseFlags(args []string) options {
	var opts options

	flags := pflag.NewFlagSet("worker", pflag.ExitOnError)
	flags.StringVar(&opts.command, "run", "", "executa um comando e encerra: resync, sweep, validate, rank, recalculate, sync-lead, leave-team, report")
	flags.Int64Var(&opts.targetID, "target-id", 0, "meta usada pelo comando recalculate")
	flags.Int64Var(&opts.leadID, "lead-id", 0, "lead usado pelo comando sync-lead")
	flags.Int64Var(&opts.teamID, "team-id", 0, "time usado pelo comando leave-team")
	flags.Int64Var(&opts.userID, "user-id", 0, "usuário usado pelo comando leave-team")
	flags.StringVar(&opts.periodType, "period-type", "", "tipo de período usado pelo comando report (padrão monthly)")
	flags.BoolVar(&opts.fix, "fix", false, "aplica as correções permitidas pela configuração no comando sweep")
	_ = flags.Parse(args)

	return opts
}
