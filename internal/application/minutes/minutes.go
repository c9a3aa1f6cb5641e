// Package minutes renders the printable meeting-minutes document for one
// training record.
package minutes

import (
	"bytes"
	"html/template"

	domain "capacitaciones/internal/domain/training"
)

// minRosterRows pads short rosters so the printed sheet always has room for
// handwritten additions.
const minRosterRows = 15

// data is the template payload for one rendered document.
type data struct {
	Record           domain.Training
	Fecha            string
	ParticipantCount int
	EmptyRows        []struct{}
}

var tmpl = template.Must(template.New("minuta").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <title>Minuta de Reunión - {{.Record.TrainingName}}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 40px; color: #333; }
    .container { width: 100%; max-width: 800px; margin: auto; }
    .logo-container { text-align: right; margin-bottom: 20px; }
    .logo-main { color: #005f9e; font-size: 48px; font-weight: bold; margin: 0; letter-spacing: -2px; }
    .logo-sub { margin: 0; font-size: 14px; color: #555; }
    .title { text-align: center; font-weight: bold; font-size: 16px; margin-bottom: 10px; }
    .main-table, .participants-table { width: 100%; border-collapse: collapse; margin-bottom: 10px; }
    .cell { border: 1px solid black; padding: 6px; font-size: 12px; vertical-align: top; }
    .label { font-weight: bold; }
    .long-text { height: 60px; }
    .participants-table { margin-top: -10px; }
    .participant-cell { width: 50%; }
    .signature-cell { width: 50%; }
    .footer-container { display: flex; justify-content: space-between; font-size: 12px; font-weight: bold; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="logo-container">
      <div class="logo-main">mobi.</div>
      <div class="logo-sub">muebles para tu vida</div>
    </div>
    <div class="title">MINUTA DE REUNIÓN</div>

    <table class="main-table">
      <tbody>
        <tr>
          <td class="cell label" style="width: 20%;">No. de participantes:</td>
          <td class="cell" style="width: 30%;">{{.ParticipantCount}}</td>
          <td class="cell label" style="width: 20%;">No. De sesión:</td>
          <td class="cell" style="width: 30%;">1</td>
        </tr>
        <tr>
          <td class="cell label">Área involucrada:</td>
          <td class="cell">{{.Record.RequestingArea}}</td>
          <td class="cell label">Hora de inicio:</td>
          <td class="cell">N/A</td>
        </tr>
        <tr>
          <td class="cell label">Fecha:</td>
          <td class="cell">{{.Fecha}}</td>
          <td class="cell label">Hora de término:</td>
          <td class="cell">N/A</td>
        </tr>
        <tr>
          <td class="cell label">Lugar:</td>
          <td class="cell">{{.Record.Location}}</td>
          <td class="cell label">Elaboró:</td>
          <td class="cell">{{.Record.TrainerName}}</td>
        </tr>
        <tr>
          <td class="cell label long-text">ACUERDOS ANTERIORES:</td>
          <td class="cell long-text" colspan="3"></td>
        </tr>
        <tr>
          <td class="cell label">AGENDA:</td>
          <td class="cell" colspan="3">{{.Record.TrainingName}}</td>
        </tr>
        <tr>
          <td class="cell label long-text">ACUERDOS TOMADOS:</td>
          <td class="cell long-text" colspan="3">{{.Record.Objective}}</td>
        </tr>
      </tbody>
    </table>

    <table class="participants-table">
      <tbody>
        {{range .Record.Participants}}
        <tr>
          <td class="cell participant-cell">{{.Name}}</td>
          <td class="cell signature-cell"></td>
        </tr>
        {{end}}
        {{range .EmptyRows}}
        <tr>
          <td class="cell participant-cell">&nbsp;</td>
          <td class="cell signature-cell"></td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <table class="main-table">
      <tbody>
        <tr>
          <td class="cell label" colspan="2">PRÓXIMA REUNIÓN:</td>
          <td class="cell label" colspan="2">HORA:</td>
        </tr>
        <tr>
          <td class="cell" colspan="2" style="height: 30px;">LUGAR:</td>
          <td class="cell" colspan="2" style="height: 30px;"></td>
        </tr>
      </tbody>
    </table>

    <div class="footer-container">
      <span>ASEHF-17-01</span>
      <span>REV-A</span>
    </div>
  </div>
</body>
</html>
`))

// Render produces the minutes document for one record.
// PRE: record has been loaded from the registry
// POST: Returns a complete HTML page, signature roster padded to at least
//
//	15 rows; a blank or malformed date renders as "No especificada"
func Render(record domain.Training) ([]byte, error) {
	fecha := "No especificada"
	if at, err := record.ScheduledAt(); err == nil {
		fecha = at.Format(domain.DateAddedLayout)
	}

	empty := 0
	if n := len(record.Participants); n < minRosterRows {
		empty = minRosterRows - n
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data{
		Record:           record,
		Fecha:            fecha,
		ParticipantCount: len(record.Participants),
		EmptyRows:        make([]struct{}, empty),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
