package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lojf/clientbook/internal/models"
)

// ExportFilename is the attachment name used by the HTTP export.
const ExportFilename = "clients.csv"

var exportHeader = []string{"ID", "Name", "Email", "Phone"}

// Export writes every client as CSV, in storage order.
func (s *Clients) Export(ctx context.Context, w io.Writer) error {
	clients, err := s.List(ctx)
	if err != nil {
		return err
	}
	if err := WriteCSV(w, clients); err != nil {
		return err
	}
	s.log.Debugw("clients exported", "rows", len(clients))
	return nil
}

// WriteCSV renders clients with a header row. Absent email and phone become empty fields.
func WriteCSV(w io.Writer, clients []models.Client) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, c := range clients {
		if err := cw.Write([]string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Name,
			c.EmailOrEmpty(),
			c.PhoneOrEmpty(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
