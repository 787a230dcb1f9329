package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: "jwt.secret" is read from GV_JWT_SECRET.
const EnvPrefix = "GV"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewViper loads configuration from pathFile and watches it for changes.
//
// The file type is inferred from the extension. Environment variables with
// the GV_ prefix take precedence over file values.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	filename := path.Base(pathFile)
	configName := strings.TrimSuffix(filename, path.Ext(filename))

	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "op", e.Op.String(), "error", err)
			return
		}
		slog.Info("config reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory.
// configType is a format supported by viper ("yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetBool(key string) bool { return vc.v.GetBool(key) }

func (vc *Viper) GetInt(key string) int { return vc.v.GetInt(key) }

func (vc *Viper) GetInt64(key string) int64 { return vc.v.GetInt64(key) }

func (vc *Viper) GetFloat64(key string) float64 { return vc.v.GetFloat64(key) }

func (vc *Viper) GetString(key string) string { return vc.v.GetString(key) }

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

func (vc *Viper) GetDay(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * 24 * time.Hour
}

func (vc *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(vc.v.GetString(key))
	if err != nil {
		return nil
	}

	return data
}

func (vc *Viper) GetArray(key string) []string {
	parts := lo.Map(strings.Split(vc.v.GetString(key), ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})

	return lo.Compact(parts)
}

func (vc *Viper) GetMap(key string) map[string]string {
	m := make(map[string]string)

	for _, pair := range vc.GetArray(key) {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return m
}

// Close implements io.Closer. Viper holds no resources beyond the watcher
// goroutine, which lives for the process lifetime.
func (vc *Viper) Close() error {
	return nil
}
