package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/toddlerya/schoolrecords/config"
	"github.com/toddlerya/schoolrecords/loader"
	"github.com/toddlerya/schoolrecords/model"
	"github.com/toddlerya/schoolrecords/predictor"
	"gorm.io/gorm"
)

var (
	dbPath     string
	driver     string
	dsn        string
	plotPath   string
	logLevel   string
	strictRefs bool

	seedStudents int
	seedScores   int
)

var rootCmd = &cobra.Command{
	Use:          "schoolrecords",
	Short:        "Interactive school records manager",
	Long:         `schoolrecords stores students and their subject scores in a local database and predicts scores with a per-subject linear regression.`,
	SilenceUsage: true,
	RunE:         run,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with random students and scores",
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath, "SQLite database file path")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", config.DriverSQLite, "Database driver: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (with --driver postgres)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&plotPath, "plot", config.DefaultPlotPath, "Scatter plot output file (empty disables the plot)")
	rootCmd.Flags().BoolVar(&strictRefs, "strict-refs", false, "Reject scores that reference a missing student")

	seedCmd.Flags().IntVar(&seedStudents, "students", 10, "Number of students to generate")
	seedCmd.Flags().IntVar(&seedScores, "scores", 5, "Number of scores per student")
	rootCmd.AddCommand(seedCmd)
}

// loadConfig 读取环境变量配置, 命令行参数优先
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("driver") {
		cfg.Driver = driver
	}
	if flags.Changed("dsn") {
		cfg.DSN = dsn
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Lookup("plot") != nil && flags.Changed("plot") {
		cfg.PlotPath = plotPath
	}
	if flags.Lookup("strict-refs") != nil && flags.Changed("strict-refs") {
		cfg.StrictRefs = strictRefs
	}
	if err := cfg.SetupLogger(); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return cfg, nil
}

// openStore 连接数据库并建表. 建表失败只记录日志, 继续运行
func openStore(cfg *config.Config) (*gorm.DB, error) {
	db, err := model.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot create the database connection: %w", err)
	}
	if err := model.EnsureSchema(db); err != nil {
		logrus.Warnf("继续运行, 但表结构可能不完整: %s", err.Error())
	}
	return db, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer model.Close(db)

	p := predictor.New(db, predictor.WithPlotPath(cfg.PlotPath))
	return NewMenu(db, p, cfg.StrictRefs, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer model.Close(db)

	summary, err := loader.Seed(db, seedStudents, seedScores)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d students and %d scores.\n", summary.Students, summary.Scores)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
