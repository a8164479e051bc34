// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/evaluation"
	"github.com/pterm/pterm"
)

const ruleWidth = 60

var exampleQueries = []string{
	"me piden el DNI",
	"quieren revisar mi mochila",
	"me llevan a la comisaria",
}

var actionLabels = map[core.ActionType]string{
	core.ActionSay:      "DECIR",
	core.ActionDo:       "HACER",
	core.ActionDoNot:    "NO HACER",
	core.ActionRecord:   "GRABAR",
	core.ActionCall:     "LLAMAR",
	core.ActionDocument: "DOCUMENTAR",
}

func rule(w io.Writer, char string) {
	fmt.Fprintln(w, pterm.Gray(strings.Repeat(char, ruleWidth)))
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.Bold.Sprint(" "+title+" "))
	rule(w, "-")
}

func printHeader(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.Blue(strings.Repeat("=", ruleWidth)))
	fmt.Fprintln(w, pterm.Bold.Sprint("  DERECHOS"))
	fmt.Fprintln(w, pterm.Gray("  Tus derechos ante intervenciones policiales"))
	fmt.Fprintln(w, pterm.Blue(strings.Repeat("=", ruleWidth)))
}

func printFooter(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.Blue(strings.Repeat("=", ruleWidth)))
	fmt.Fprintln(w, pterm.Gray("  Esta información NO es asesoría legal."))
	fmt.Fprintln(w, pterm.Gray("  Para casos específicos, consulta con un abogado."))
	fmt.Fprintln(w, pterm.Blue(strings.Repeat("=", ruleWidth)))
}

func printNoMatch(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+pterm.Yellow("No se encontraron situaciones relevantes."))
	fmt.Fprintln(w, "  Intenta con otras palabras, por ejemplo:")
	for _, q := range exampleQueries {
		fmt.Fprintf(w, "    - %q\n", q)
	}
}

func printEmergencyBanner(w io.Writer, c *core.Context) {
	fmt.Fprintln(w)
	msg := fmt.Sprintf("  ESTADO DE EMERGENCIA VIGENTE: %s", c.Name)
	if c.DecreeNumber != "" {
		msg += fmt.Sprintf(" (%s)", c.DecreeNumber)
	}
	fmt.Fprintln(w, pterm.Red(msg))
	if len(c.ActiveRegions) > 0 {
		fmt.Fprintf(w, "  Regiones: %s\n", strings.Join(c.ActiveRegions, ", "))
	}
}

func severityColor(s core.Severity) func(a ...any) string {
	switch s {
	case core.SeverityLow:
		return pterm.Green
	case core.SeverityMedium:
		return pterm.Yellow
	case core.SeverityHigh, core.SeverityCritical:
		return pterm.Red
	default:
		return pterm.White
	}
}

func percent(score float64) string {
	return strconv.Itoa(int(score*100+0.5)) + "%"
}

func printSituation(w io.Writer, title, description string, severity core.Severity) {
	section(w, "SITUACIÓN DETECTADA")
	fmt.Fprintf(w, "  %s\n", pterm.Bold.Sprint(title))
	fmt.Fprintf(w, "  %s\n", description)
	fmt.Fprintf(w, "  Severidad: %s\n", severityColor(severity)(strings.ToUpper(string(severity))))
}

func printMatch(w io.Writer, m *core.MatchResult, explain bool) {
	printSituation(w, m.Title, m.Description, m.Severity)
	fmt.Fprintf(w, "  Relevancia: %s\n", percent(m.Score))
	if explain {
		printComponents(w, m)
	}
}

func printComponents(w io.Writer, m *core.MatchResult) {
	fmt.Fprintf(w, "  %s natural=%.3f keyword=%.3f title=%.3f partial=%.3f fused=%.4f\n",
		pterm.Gray("[explain]"),
		m.Components.NaturalQuery, m.Components.Keyword, m.Components.Title, m.Components.Partial, m.Score)
}

func printOtherMatches(w io.Writer, results []*core.MatchResult, explain bool) {
	if len(results) <= 1 {
		return
	}
	section(w, "OTRAS SITUACIONES POSIBLES")
	for _, r := range results[1:] {
		fmt.Fprintf(w, "  - %s (%s) %s\n", r.Title, percent(r.Score), pterm.Gray(r.SituationID))
		if explain {
			printComponents(w, r)
		}
	}
}

// sourcesByRight maps a right ID to the legal sources it cites.
type sourcesByRight map[string][]*core.LegalSource

// printDetails renders the attached records grouped by context, normal first.
func printDetails(w io.Writer, d *core.Details, sources sourcesByRight) {
	printRights(w, d.Rights, sources)
	printActions(w, d.Actions)
	printTimeLimits(w, d.TimeLimits)
	printContacts(w, d.Contacts)
}

func contextsOf[T any](rows []T, contextID func(T) string) []string {
	var out []string
	for _, r := range rows {
		if id := contextID(r); !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == core.ContextNormal:
			return -1
		case b == core.ContextNormal:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return out
}

func contextHeading(w io.Writer, contextID string, grouped bool) {
	if !grouped && contextID == core.ContextNormal {
		return
	}
	fmt.Fprintf(w, "\n  %s\n", pterm.Yellow("Contexto: "+contextID))
}

func printRights(w io.Writer, rights []core.RightDetail, sources sourcesByRight) {
	if len(rights) == 0 {
		return
	}
	section(w, "TUS DERECHOS")
	contexts := contextsOf(rights, func(r core.RightDetail) string { return r.ContextID })
	for _, contextID := range contexts {
		contextHeading(w, contextID, len(contexts) > 1)
		for _, r := range rights {
			if r.ContextID != contextID {
				continue
			}
			title := pterm.Cyan(r.Right.Title)
			if r.Right.NeverSuspended {
				title += pterm.Green(" [NUNCA SE SUSPENDE]")
			}
			if !r.Applies {
				title += pterm.Red(" [RESTRINGIDO]")
			}
			fmt.Fprintf(w, "\n  %s\n", title)
			fmt.Fprintf(w, "  %s\n", r.Right.Description)
			fmt.Fprintf(w, "  %s %s\n", pterm.Gray("Base legal:"), r.Right.LegalBasis)
			printSourceLines(w, sources[r.Right.ID])
			if r.Notes != "" {
				fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("Nota:"), r.Notes)
			}
		}
	}
}

func printActions(w io.Writer, actions []core.ActionStep) {
	if len(actions) == 0 {
		return
	}
	section(w, "QUÉ HACER (PASO A PASO)")
	contexts := contextsOf(actions, func(a core.ActionStep) string { return a.ContextID })
	for _, contextID := range contexts {
		contextHeading(w, contextID, len(contexts) > 1)
		for _, a := range actions {
			if a.ContextID != contextID {
				continue
			}
			label, ok := actionLabels[a.Action.ActionType]
			if !ok {
				label = strings.ToUpper(string(a.Action.ActionType))
			}
			color := pterm.Green
			if a.Action.ActionType == core.ActionDoNot {
				color = pterm.Red
			}
			fmt.Fprintf(w, "\n  %s [%s]\n", pterm.Bold.Sprintf("Paso %d", a.StepOrder), color(label))
			fmt.Fprintf(w, "  %s\n", pterm.Cyan(a.Action.Title))
			fmt.Fprintf(w, "  %s\n", a.Action.Description)
			if a.Action.Script != "" {
				fmt.Fprintf(w, "\n  %s\n  %q\n", pterm.Yellow("Texto sugerido:"), a.Action.Script)
			}
			if a.Action.Warning != "" {
				fmt.Fprintf(w, "\n  %s %s\n", pterm.Red("Advertencia:"), a.Action.Warning)
			}
		}
	}
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + " horas"
}

func printTimeLimits(w io.Writer, limits []core.TimeLimit) {
	if len(limits) == 0 {
		return
	}
	section(w, "LÍMITES DE TIEMPO")
	for _, tl := range limits {
		fmt.Fprintf(w, "\n  %s\n", pterm.Cyan(tl.Description))
		fmt.Fprintf(w, "  Máximo: %s\n", pterm.Red(hours(tl.MaxHours)))
		if tl.MaxHoursEmergency != nil && *tl.MaxHoursEmergency != tl.MaxHours {
			fmt.Fprintf(w, "  En emergencia: %s\n", pterm.Yellow(hours(*tl.MaxHoursEmergency)))
		}
		if tl.AppliesTo != "" && tl.AppliesTo != core.AppliesToAll {
			fmt.Fprintf(w, "  Aplica a: %s\n", tl.AppliesTo)
		}
		if tl.AfterExpiryAction != "" {
			fmt.Fprintf(w, "  %s %s\n", pterm.Red("Si se excede:"), tl.AfterExpiryAction)
		}
	}
}

func printSourceLines(w io.Writer, sources []*core.LegalSource) {
	for _, src := range sources {
		fmt.Fprintf(w, "  %s %s, %s\n", pterm.Gray("Fuente:"), src.Name, src.Article)
	}
}

func printContacts(w io.Writer, contacts []core.ContactDetail) {
	if len(contacts) == 0 {
		return
	}
	section(w, "A QUIÉN LLAMAR")
	for _, cd := range contacts {
		printContact(w, &cd.Contact)
	}
}

func printContact(w io.Writer, ct *core.EmergencyContact) {
	fmt.Fprintf(w, "\n  %s\n", pterm.Cyan(ct.Institution))
	fmt.Fprintf(w, "  %s\n", ct.Description)
	if ct.Phone != "" {
		fmt.Fprintf(w, "  Tel: %s\n", pterm.Green(ct.Phone))
	}
	if ct.WhatsApp != "" {
		fmt.Fprintf(w, "  WhatsApp: %s\n", pterm.Green(ct.WhatsApp))
	}
	if ct.Email != "" {
		fmt.Fprintf(w, "  Email: %s\n", ct.Email)
	}
	if ct.Website != "" {
		fmt.Fprintf(w, "  Web: %s\n", ct.Website)
	}
	cost := "De pago"
	if ct.IsFree {
		cost = "Gratuito"
	}
	if ct.AvailableHours != "" {
		cost += " | " + ct.AvailableHours
	}
	fmt.Fprintf(w, "  %s\n", cost)
}

func printRelated(w io.Writer, parent *core.Situation, children []*core.Situation) {
	if parent == nil && len(children) == 0 {
		return
	}
	section(w, "SITUACIONES RELACIONADAS")
	if parent != nil {
		fmt.Fprintf(w, "  %s %s %s\n", pterm.Gray("↑"), parent.Title, pterm.Gray("("+parent.ID+")"))
	}
	for _, c := range children {
		fmt.Fprintf(w, "  %s %s %s\n", pterm.Gray("→"), c.Title, pterm.Gray("("+c.ID+")"))
	}
}

func printRightsCatalog(w io.Writer, rights []*core.Right, sources sourcesByRight) {
	section(w, "DERECHOS")
	for _, r := range rights {
		title := pterm.Cyan(r.Title)
		if r.IsAbsolute {
			title += pterm.Green(" [ABSOLUTO]")
		}
		if r.NeverSuspended {
			title += pterm.Green(" [NUNCA SE SUSPENDE]")
		}
		fmt.Fprintf(w, "\n  %s %s\n", title, pterm.Gray("("+r.ID+")"))
		fmt.Fprintf(w, "  %s\n", r.Description)
		fmt.Fprintf(w, "  %s %s\n", pterm.Gray("Base legal:"), r.LegalBasis)
		printSourceLines(w, sources[r.ID])
	}
}

func printContactsCatalog(w io.Writer, contacts []*core.EmergencyContact) {
	section(w, "CONTACTOS")
	for _, ct := range contacts {
		printContact(w, ct)
	}
}

func printSources(w io.Writer, sources []*core.LegalSource) {
	section(w, "FUENTES LEGALES")
	for _, src := range sources {
		fmt.Fprintf(w, "\n  %s, %s %s\n", pterm.Cyan(src.Name), src.Article, pterm.Gray("("+src.Status+")"))
		if src.Summary != "" {
			fmt.Fprintf(w, "  %s\n", src.Summary)
		}
		if src.OfficialURL != "" {
			fmt.Fprintf(w, "  Web: %s\n", src.OfficialURL)
		}
	}
}

func printContexts(w io.Writer, contexts []*core.Context) {
	section(w, "CONTEXTOS LEGALES")
	for _, c := range contexts {
		status := pterm.Gray("inactivo")
		if c.IsCurrentlyActive {
			status = pterm.Green("vigente")
		}
		fmt.Fprintf(w, "\n  %s %s [%s]\n", pterm.Cyan(c.Name), pterm.Gray("("+c.ID+")"), status)
		fmt.Fprintf(w, "  %s\n", c.Description)
		if len(c.AffectsRights) > 0 {
			fmt.Fprintf(w, "  Derechos afectados: %s\n", strings.Join(c.AffectsRights, ", "))
		}
	}
}

func printMyths(w io.Writer, myths []*core.Myth) {
	section(w, "MITOS Y REALIDADES")
	for _, m := range myths {
		fmt.Fprintf(w, "\n  %s %s\n", pterm.Red("Mito:"), m.Myth)
		fmt.Fprintf(w, "  %s %s\n", pterm.Green("Realidad:"), m.Reality)
		if m.Explanation != "" {
			fmt.Fprintf(w, "  %s\n", m.Explanation)
		}
	}
}

func printProblems(w io.Writer, problems []error) {
	section(w, "PROBLEMAS DEL CATÁLOGO")
	for _, p := range problems {
		fmt.Fprintf(w, "  %s %s\n", pterm.Red("✗"), p)
	}
}

func printManifest(w io.Writer, m *core.Manifest) {
	section(w, "CATÁLOGO INSTALADO")
	fmt.Fprintf(w, "  País: %s\n", m.Country)
	fmt.Fprintf(w, "  Versión de datos: %s\n", m.DataVersion)
	fmt.Fprintf(w, "  Huella: %s\n", pterm.Gray(m.Version))
	kinds := make([]string, 0, len(m.Counts))
	for k := range m.Counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-20s %d\n", k, m.Counts[k])
	}
}

func printReport(w io.Writer, report *evaluation.Report) {
	section(w, "EVALUACIÓN")
	for _, r := range report.Results {
		mark := pterm.Green("✓")
		if !r.Passed {
			mark = pterm.Red("✗")
		}
		got := "-"
		if top := r.Top(); top != nil {
			got = top.SituationID
		}
		expect := r.Case.Expect
		if r.Case.ExpectsNothing() {
			expect = "(ninguna)"
		}
		fmt.Fprintf(w, "  %s %-45q esperado=%s obtenido=%s\n", mark, r.Case.Query, expect, got)
	}
	fmt.Fprintf(w, "\n  %d/%d correctas (%s) en %s\n",
		report.Passed, len(report.Results), percent(report.HitRate()), report.Elapsed.Round(time.Millisecond))
}
