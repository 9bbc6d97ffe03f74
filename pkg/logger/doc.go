// Package logger provides a configured slog.Logger factory and typed
// attribute helpers for consistent structured logging across trackkit
// components.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithTextFormatter(),
//	    logger.WithAttr(slog.String("service", "trackkit-demo")),
//	)
//
//	log.LogAttrs(ctx, slog.LevelInfo, "delivery dispatched",
//	    logger.Category("shipment_created"),
//	    logger.UserEmail("ops@example.com"),
//	)
package logger
