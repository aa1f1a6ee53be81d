package inventory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedEvent = errors.New("malformed stock delta event")

// StockDelta is the message carried on the inventory queue: add Delta to the
// stock of ProductID. It has no id and no attempt counter, so a redelivered
// message is indistinguishable from a new one.
type StockDelta struct {
	ProductID int64
	Delta     int
}

// Encode renders the wire form "{productId}:{delta}", e.g. "1:-3".
func (e StockDelta) Encode() []byte {
	return []byte(strconv.FormatInt(e.ProductID, 10) + ":" + strconv.Itoa(e.Delta))
}

func (e StockDelta) String() string { return string(e.Encode()) }

func DecodeStockDelta(body []byte) (StockDelta, error) {
	pid, delta, ok := strings.Cut(strings.TrimSpace(string(body)), ":")
	if !ok {
		return StockDelta{}, fmt.Errorf("%w: %q", ErrMalformedEvent, body)
	}
	productID, err := strconv.ParseInt(pid, 10, 64)
	if err != nil {
		return StockDelta{}, fmt.Errorf("%w: product id %q", ErrMalformedEvent, pid)
	}
	d, err := strconv.Atoi(delta)
	if err != nil {
		return StockDelta{}, fmt.Errorf("%w: delta %q", ErrMalformedEvent, delta)
	}
	return StockDelta{ProductID: productID, Delta: d}, nil
}
