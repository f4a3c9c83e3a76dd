package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/drakos74/free-fall/client"
	"github.com/drakos74/free-fall/client/binance"
	"github.com/drakos74/free-fall/client/kraken"
	"github.com/drakos74/free-fall/client/lnm"
	"github.com/drakos74/free-fall/infra/config"
	"github.com/drakos74/free-fall/internal/algo/fusion"
	"github.com/drakos74/free-fall/internal/algo/indicator"
	"github.com/drakos74/free-fall/internal/algo/merge"
	"github.com/drakos74/free-fall/internal/api"
	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
	"github.com/drakos74/free-fall/internal/trader"
	"github.com/drakos74/free-fall/user"
	localuser "github.com/drakos74/free-fall/user/local"
	"github.com/drakos74/free-fall/user/telegram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	lnAPIURLKey         = "LN_MAINNET_API_URL"
	lnWSEndpointKey     = "LN_MAINNET_API_WS_ENDPOINT"
	lnPriceMethodKey    = "LN_PRICE_METHOD"
	lnAPIKey            = "LN_API_KEY"
	lnAPISecretKey      = "LN_API_SECRET"
	lnAPIPassphraseKey  = "LN_API_PASSPHRASE"
	telegramBotTokenKey = "TELEGRAM_BOT_TOKEN"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Settings is the application config surface, loaded from
// infra/config/free-fall.json. Secrets live in the environment.
type Settings struct {
	Coin                 string            `json:"coin"`
	Granularity          string            `json:"granularity"`
	HistoryLimit         int               `json:"history_limit"`
	IncludePriceHistory  bool              `json:"include_price_history"`
	IncludeIndexHistory  bool              `json:"include_index_history"`
	Source               string            `json:"source"`
	BufferSize           int               `json:"buffer_size"`
	MarketRefreshMinutes int               `json:"market_refresh_minutes"`
	Periods              indicator.Periods `json:"periods"`
	Weights              fusion.Weights    `json:"weights"`
	Gap                  float64           `json:"gap"`
	Trader               TraderSettings    `json:"trader"`
}

// TraderSettings is the risk configuration block.
type TraderSettings struct {
	RiskPerTrade float64           `json:"risk_per_trade"`
	RiskToReward float64           `json:"risk_to_reward"`
	RiskToLoss   float64           `json:"risk_to_loss"`
	Leverage     int               `json:"leverage"`
	TradeGap     cointime.Duration `json:"trade_gap"`
}

func main() {
	config.LoadEnv(".env")

	var settings Settings
	config.MustLoad("free-fall", &settings)

	coin := model.Coin(settings.Coin)
	granularity := cointime.Granularity(settings.Granularity)
	if !granularity.Valid() {
		log.Fatal().Str("granularity", settings.Granularity).Msg("unknown granularity")
	}
	interval := granularity.Interval()

	if err := settings.Periods.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid indicator periods")
	}
	if err := settings.Weights.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid fusion weights")
	}

	credentials := lnm.Credentials{
		Key:        config.MustGetEnv(lnAPIKey),
		Secret:     config.MustGetEnv(lnAPISecretKey),
		Passphrase: config.MustGetEnv(lnAPIPassphraseKey),
	}
	exchange := lnm.New(coin, config.MustGetEnv(lnAPIURLKey), granularity, credentials)

	source, err := tickSource(client.Name(settings.Source), coin, granularity)
	if err != nil {
		log.Fatal().Err(err).Str("source", settings.Source).Msg("could not create tick source")
	}

	users := []api.User{auditUser()}
	if os.Getenv(telegramBotTokenKey) != "" {
		bot, err := telegram.NewBot()
		if err != nil {
			log.Fatal().Err(err).Msg("could not create telegram bot")
		}
		users = append(users, bot)
	}
	u := user.NewMulti(users...)

	ctx, cnl := context.WithCancel(context.Background())
	defer cnl()
	if err := u.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not start user")
	}

	// initial history and snapshot, the pipeline cannot start without it.
	to := cointime.ThisInstant()
	from := cointime.LastXMinutes(settings.HistoryLimit * int(interval.Minutes()))

	bars, err := exchange.Bars(from, to, settings.HistoryLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("could not fetch initial bar history")
	}
	if len(bars) == 0 {
		log.Fatal().Msg("empty initial bar history")
	}

	var prices, index []model.Point
	if settings.IncludePriceHistory {
		if prices, err = exchange.Prices(from, to, settings.HistoryLimit); err != nil {
			log.Fatal().Err(err).Msg("could not fetch initial price history")
		}
	}
	if settings.IncludeIndexHistory {
		if index, err = exchange.Index(from, to, settings.HistoryLimit); err != nil {
			log.Fatal().Err(err).Msg("could not fetch initial index history")
		}
	}

	builder := indicator.New(coin, settings.Periods)
	engine := fusion.New(settings.Weights, settings.Gap)
	merger := merge.New(coin, engine, settings.BufferSize)

	tradingConfig := trader.Config{
		RiskPerTrade: settings.Trader.RiskPerTrade,
		RiskToReward: settings.Trader.RiskToReward,
		RiskToLoss:   settings.Trader.RiskToLoss,
		Leverage:     settings.Trader.Leverage,
		TradeGap:     settings.Trader.TradeGap.Duration,
	}
	trades, err := trader.New(coin, tradingConfig, exchange, u)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create trader")
	}
	if err := trades.RefreshMarket(); err != nil {
		log.Fatal().Err(err).Msg("could not load market limits")
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup

	// seed the decision context with the initial snapshot.
	snapshot := builder.Compute(bars, prices, index)
	merger.Updates() <- merge.SnapshotUpdate(snapshot)

	wg.Add(1)
	go func() {
		defer wg.Done()
		merger.Run(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		trades.Trade(merger.Decisions())
	}()

	// bar refresh on the aligned granularity interval.
	// Execute runs its own goroutine, the shutdown hook releases the group.
	window := &barWindow{bars: bars}
	wg.Add(1)
	cointime.Execute(stop, interval, func() error {
		update, err := exchange.Bars(window.lastMilli(), cointime.ThisInstant(), settings.HistoryLimit)
		if err != nil {
			log.Warn().Err(err).Msg("could not refresh bar history")
			return nil
		}
		bars := window.append(update)
		snapshot := builder.Compute(bars, prices, index)
		select {
		case merger.Updates() <- merge.SnapshotUpdate(snapshot):
		case <-stop:
		}
		return nil
	}, func() {
		log.Info().Str("coin", string(coin)).Msg("stopping bar refresh")
		wg.Done()
	})

	// market limits refresh.
	wg.Add(1)
	cointime.Execute(stop, time.Duration(settings.MarketRefreshMinutes)*time.Minute, func() error {
		if err := trades.RefreshMarket(); err != nil {
			log.Warn().Err(err).Msg("could not refresh market limits")
		}
		return nil
	}, func() {
		log.Info().Str("coin", string(coin)).Msg("stopping market refresh")
		wg.Done()
	})

	ticks, err := source.Ticks(stop)
	if err != nil {
		log.Fatal().Err(err).Msg("could not start tick feed")
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for tick := range ticks {
			select {
			case merger.Updates() <- merge.TickUpdate(*tick):
			case <-stop:
				return
			}
		}
		log.Warn().Str("coin", string(coin)).Msg("tick feed ended")
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-signals
	log.Info().Msg("shutting down")
	close(stop)
	cnl()
	wg.Wait()
}

func tickSource(name client.Name, coin model.Coin, granularity cointime.Granularity) (api.Source, error) {
	if name == "" {
		name = client.LNM
	}
	switch name {
	case client.LNM:
		return lnm.NewSocketSource(coin,
			config.MustGetEnv(lnWSEndpointKey),
			config.GetEnv(lnPriceMethodKey, "v1/public/subscribe")), nil
	case client.Binance:
		return binance.NewSource(coin, granularity), nil
	case client.Kraken:
		return kraken.NewSource(coin), nil
	default:
		return nil, fmt.Errorf("unknown tick source: %s", name)
	}
}

func auditUser() api.User {
	audit, err := localuser.NewUser(config.GetEnv("AUDIT_LOG", "free-fall.log"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not create audit user")
	}
	return audit
}

// barWindow guards the fixed-length bar series shared by the refresh loop.
type barWindow struct {
	lock sync.Mutex
	bars []model.Bar
}

func (w *barWindow) lastMilli() int64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	return cointime.ToMilli(w.bars[len(w.bars)-1].Time)
}

func (w *barWindow) append(update []model.Bar) []model.Bar {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.bars = model.AppendBars(w.bars, update)
	out := make([]model.Bar, len(w.bars))
	copy(out, w.bars)
	return out
}
