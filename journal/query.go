package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
)

// TradeRecord is a stored trade together with the note it belongs to.
type TradeRecord struct {
	market.Trade
	Note string
}

// NoteRecord is a stored note without its trades.
type NoteRecord struct {
	Number         string
	Synthetic      bool
	Broker         market.Broker
	Date           time.Time
	Buys           decimal.Decimal
	Sales          decimal.Decimal
	Volume         decimal.Decimal
	Fees           decimal.NullDecimal
	WithheldTax    decimal.NullDecimal
	NetSettlement  decimal.NullDecimal
	UnallocatedTax decimal.NullDecimal
	Documents      []string
}

const tradeColumns = `trade_id, note_number, ticker, specification, date, side, quantity, price, value, fees, withheld_tax, broker, market, day_trade`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var (
		rec                TradeRecord
		date, side, broker string
		marketLabel        string
	)
	err := s.Scan(
		&rec.ID,
		&rec.Note,
		&rec.Ticker,
		&rec.Specification,
		&date,
		&side,
		&rec.Quantity,
		&rec.Price,
		&rec.Value,
		&rec.Fees,
		&rec.WithheldTax,
		&broker,
		&marketLabel,
		&rec.DayTrade,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	if rec.Date, err = time.Parse(dbDateLayout, date); err != nil {
		return TradeRecord{}, err
	}
	if rec.Side, err = market.ParseSide(side); err != nil {
		return TradeRecord{}, err
	}
	if rec.Market, err = market.ParseMarket(marketLabel); err != nil {
		return TradeRecord{}, err
	}
	rec.Broker = market.Broker(broker)
	return rec, nil
}

func (j *SQLite) queryTrades(query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesBetween returns trades dated within [start, end), day trades
// first, in date and note order.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.queryTrades(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE date >= ? AND date < ?
		ORDER BY day_trade DESC, date ASC, note_number ASC, seq ASC`,
		start.Format(dbDateLayout), end.Format(dbDateLayout))
}

// ListTradesByNote returns the trades of one note in printed order.
func (j *SQLite) ListTradesByNote(number string) ([]TradeRecord, error) {
	return j.queryTrades(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE note_number = ?
		ORDER BY seq ASC`, number)
}

// GetNote returns a stored note by number.
func (j *SQLite) GetNote(number string) (NoteRecord, error) {
	var (
		rec          NoteRecord
		broker, date string
		docs         string
	)
	err := j.db.QueryRow(`
		SELECT number, synthetic, broker, date, buys, sales, volume, fees, withheld_tax, net_settlement, unallocated_tax, documents
		FROM notes
		WHERE number = ?`, number).Scan(
		&rec.Number,
		&rec.Synthetic,
		&broker,
		&date,
		&rec.Buys,
		&rec.Sales,
		&rec.Volume,
		&rec.Fees,
		&rec.WithheldTax,
		&rec.NetSettlement,
		&rec.UnallocatedTax,
		&docs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NoteRecord{}, fmt.Errorf("note %q not found", number)
		}
		return NoteRecord{}, err
	}
	if rec.Date, err = time.Parse(dbDateLayout, date); err != nil {
		return NoteRecord{}, err
	}
	rec.Broker = market.Broker(broker)
	if docs != "" {
		rec.Documents = strings.Split(docs, "\n")
	}
	return rec, nil
}
