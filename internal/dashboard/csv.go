package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

const timestampLayout = "02/01/2006 15:04:05"

// WriteCSV serializes the currently filtered view, deriving events over that
// same view so the exported rows match what the user is looking at.
func WriteCSV(w io.Writer, readings []models.CounterReading) error {
	cw := csv.NewWriter(w)

	header := []string{"Fecha y Hora", "Tipo", "Entradas Totales", "Salidas Totales", "Aforo", "Cambio", "Dispositivo"}
	if err := cw.Write(header); err != nil {
		return err
	}

	events := DeriveEvents(readings)
	for i, r := range readings {
		kind := "N/A"
		switch events[i].Type {
		case EventEntry:
			kind = "entrada"
		case EventExit:
			kind = "salida"
		}

		device := r.DeviceID
		if device == "" {
			device = "N/A"
		}

		row := []string{
			r.Timestamp.Format(timestampLayout),
			kind,
			strconv.Itoa(r.InCount),
			strconv.Itoa(r.OutCount),
			strconv.Itoa(r.Aforo),
			strconv.Itoa(events[i].Magnitude),
			device,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFileName matches the browser dashboard's download naming.
func CSVFileName(now time.Time) string {
	return fmt.Sprintf("logs-contador-personas-%s.csv", now.Format("2006-01-02"))
}
