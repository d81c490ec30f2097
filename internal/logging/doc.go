// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

// Package logging provides the process-wide zerolog logger for seedrec.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("path", path).Msg("Loaded traits table")
//
//	// component loggers are passed into the engine, traits and yield packages
//	engineLog := logging.WithComponent("seedrec")
//
//	// request-scoped logging picks up the request ID set by the API middleware
//	logging.Ctx(ctx).Warn().Err(err).Msg("Prediction unavailable")
//
// # Configuration
//
// Level, format and caller come from the logging section of the seedrec
// config (LOG_LEVEL, LOG_FORMAT and LOG_CALLER in the environment).
// Format is json for production or console for local runs.
//
// # Suture
//
// The supervisor tree logs through sutureslog, which needs a *slog.Logger.
// NewSlogLogger returns one that writes through zerolog so supervisor
// events share the same output and fields.
package logging
