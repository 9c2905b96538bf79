package logger

import (
	"go-drive/internal/config"
	"go-drive/internal/database" // Import to get DB connection

	"go.uber.org/zap"
)

// NewLogger requires the Mongo handle to pass to the DB Writer
func NewLogger(cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {

	// 1. Setup Base Config (Console/JSON)
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	// Build the base logger
	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	// 2. Create our Async DB Writer
	dbWriter := NewDBLogWriter(mongodb, cfg)

	// 3. Wrap the Core
	// We replace the logger's core with our "Tee" core (sends to both console and DB)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	// 4. Return new Logger with AddCaller enabled
	return zap.New(finalCore, zap.AddCaller()), nil
}
