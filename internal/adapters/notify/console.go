package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// Console implementa ports.Notifier escribiendo a stdout. Es el notifier
// por defecto cuando Telegram no está configurado, y el renderer del
// modo -once.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Send imprime una línea compacta por listing notificado.
func (c *Console) Send(_ context.Context, res domain.EvaluationResult) error {
	l := res.Listing
	_, err := fmt.Fprintf(c.out, "[%s] %.2f %s — $%.2f, %d pujas, %s | %s\n",
		time.Now().Format("15:04:05"),
		res.Score,
		domain.TruncateTitle(l.Title, l.ID, 45),
		l.CurrentPrice,
		l.BidCount,
		l.TimeRemaining.Round(time.Minute),
		strings.Join(res.Reasons, " · "),
	)
	return err
}

// PrintTable imprime el batch rankeado completo como tabla.
func (c *Console) PrintTable(results []domain.EvaluationResult) {
	if len(results) == 0 {
		fmt.Fprintf(c.out, "[%s] no qualifying listings found\n", time.Now().Format("15:04:05"))
		return
	}

	fmt.Fprintf(c.out, "\n[%s] %d qualifying listings\n",
		time.Now().Format("15:04:05"), len(results))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Score", "Listing", "Price", "Disc%", "Bids", "Ends in", "Reasons")

	for i, res := range results {
		l := res.Listing
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", res.Score),
			domain.TruncateTitle(l.Title, l.ID, 40),
			fmt.Sprintf("$%.2f", l.CurrentPrice),
			fmt.Sprintf("%.1f", res.DiscountPercent),
			fmt.Sprintf("%d", l.BidCount),
			l.TimeRemaining.Round(time.Minute).String(),
			strings.Join(res.Reasons, ", "),
		)
	}

	table.Render()
}
