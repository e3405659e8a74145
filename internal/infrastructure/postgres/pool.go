package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lafuga/gestion-api/pkg/config"
)

const (
	defaultMaxConns = 10
	publicDNS       = "8.8.8.8:53"
)

var errNoIPv4 = errors.New("sin dirección IPv4")

// NewPool abre el pool contra la base del proveedor alojado.
// DATABASE_URL tiene prioridad sobre DB_HOST/DB_PORT/...; en ambos casos el host
// se reescribe a IPv4 cuando se puede resolver (los contenedores suelen no tener IPv6).
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := cfg.ConnectionString()
	if rewritten, err := dsnWithIPv4(ctx, dsn); err == nil {
		dsn = rewritten
	}
	return openPool(ctx, dsn, cfg.MaxConns, cfg.MinConns)
}

// NewPoolFromDSN abre un pool contra un DSN explícito (tests de integración).
func NewPoolFromDSN(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return openPool(ctx, dsn, 5, 1)
}

func openPool(ctx context.Context, dsn string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	pc.ConnConfig.DialFunc = dialIPv4
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	if minConns < 0 || minConns > maxConns {
		minConns = 1
	}
	pc.MaxConns = maxConns
	pc.MinConns = minConns
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	// NUMERIC <-> decimal.Decimal en cada conexión nueva.
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Debug().
		Str("host", pc.ConnConfig.Host).
		Int32("max_conns", maxConns).
		Msg("pool PostgreSQL listo")
	return pool, nil
}

// dialIPv4 conecta por tcp4 si el host tiene A; si no, deja que el dialer decida.
func dialIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := lookupIPv4(ctx, host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// lookupIPv4 prueba el resolver del sistema y después un DNS público,
// porque dentro de Docker el resolver local a veces solo devuelve AAAA.
func lookupIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errNoIPv4
		}
		return host, nil
	}
	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", publicDNS)
		},
	}
	for _, r := range []*net.Resolver{net.DefaultResolver, public} {
		ips, err := r.LookupIP(ctx, "ip4", host)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			if v4 := ip.To4(); v4 != nil {
				return v4.String(), nil
			}
		}
	}
	return "", errNoIPv4
}

// dsnWithIPv4 reemplaza el host de un DSN en formato URL por su IPv4.
func dsnWithIPv4(ctx context.Context, dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("dsn sin host")
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ip, err := lookupIPv4(ctx, u.Hostname())
	if err != nil {
		return "", err
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String(), nil
}
