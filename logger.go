// logger.go: severity-gated logging collaborator
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package swbus

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger wraps *zap.Logger to provide fatal/error/warn/info/debug/trace
// report calls gated by severity. The original C library gates these at
// compile time via macros so that calls below the
// configured severity are removed from the binary entirely; Go has no
// preprocessor, so the closest equivalent is zap's AtomicLevel, checked
// once per call before any field is formatted — calls below threshold
// cost a single level comparison and nothing else (an Open Question
// resolution, recorded in DESIGN.md).
//
// zap has no native "trace" level below Debug, so trace() logs at Debug
// with an explicit field marking it as such; this is the closest
// faithful mapping without inventing a custom zapcore.Level scheme for a
// severity tier nothing in this module's critical path actually uses.
type logger struct {
	z *zap.Logger
}

func newLogger(name string) *logger {
	z, err := zap.NewProduction(zap.Fields(zap.String("bus", name)))
	if err != nil {
		z = zap.NewNop()
	}
	return &logger{z: z}
}

func (l *logger) sync() { _ = l.z.Sync() }

func (l *logger) fatal(msg string, fields ...zap.Field) {
	if ce := l.z.Check(zapcore.DPanicLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *logger) error(msg string, fields ...zap.Field) {
	if ce := l.z.Check(zapcore.ErrorLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *logger) warn(msg string, fields ...zap.Field) {
	if ce := l.z.Check(zapcore.WarnLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *logger) info(msg string, fields ...zap.Field) {
	if ce := l.z.Check(zapcore.InfoLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *logger) debug(msg string, fields ...zap.Field) {
	if ce := l.z.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *logger) trace(msg string, fields ...zap.Field) {
	if ce := l.z.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(append(fields, zap.Bool("trace", true))...)
	}
}
