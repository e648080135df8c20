package html

import "strings"

// baseCSS styles the class vocabulary the renderer emits. Hosts embedding
// fragments bring their own stylesheets; Document is for standalone output.
const baseCSS = `body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
.hidden { display: none; }
hr { border: none; border-top: 1px solid #e5e7eb; margin: 1rem 0; }
.badge { display: inline-block; padding: 0.1rem 0.5rem; border-radius: 999px; font-size: 0.8rem; color: #fff; }
.badge-blue { background: #3b82f6; }
.badge-green { background: #22c55e; }
.badge-red { background: #ef4444; }
.badge-yellow { background: #eab308; }
.badge-purple { background: #a855f7; }
.badge-gray { background: #6b7280; }
.alert { padding: 0.75rem 1rem; border-radius: 0.375rem; margin: 0.5rem 0; }
.alert-info { background: #dbeafe; color: #1e40af; }
.alert-success { background: #dcfce7; color: #166534; }
.alert-warning { background: #fef9c3; color: #854d0e; }
.alert-error { background: #fee2e2; color: #991b1b; }
.card { border: 1px solid #e5e7eb; border-radius: 0.5rem; padding: 1rem; margin: 0.5rem 0; }
.card-title, .form-title, .list-title, .chart-title { font-weight: 600; margin-bottom: 0.5rem; }
.btn { padding: 0.4rem 1rem; border: 1px solid #d1d5db; border-radius: 0.375rem; background: #f9fafb; cursor: pointer; }
.btn-primary { background: #3b82f6; border-color: #3b82f6; color: #fff; }
.btn:disabled { opacity: 0.6; cursor: wait; }
.field-label { display: block; margin-top: 0.5rem; font-size: 0.9rem; }
input[type=text], textarea, select { padding: 0.35rem 0.5rem; border: 1px solid #d1d5db; border-radius: 0.375rem; margin: 0.25rem 0; }
fieldset { border: 1px solid #e5e7eb; border-radius: 0.375rem; margin: 0.5rem 0; }
fieldset .option { display: block; margin: 0.25rem 0; }
table { border-collapse: collapse; margin: 0.5rem 0; }
th, td { border: 1px solid #e5e7eb; padding: 0.35rem 0.75rem; text-align: left; }
.progress { background: #e5e7eb; border-radius: 999px; height: 0.75rem; overflow: hidden; margin: 0.5rem 0; }
.progress-fill { background: #3b82f6; height: 100%; }
.circular-progress { width: 6rem; height: 6rem; }
.circular-progress .ring-track { stroke: #e5e7eb; stroke-width: 8; }
.circular-progress .ring-fill { stroke: #3b82f6; stroke-width: 8; stroke-linecap: round; transform: rotate(-90deg); transform-origin: 50% 50%; }
.circular-progress text { font-size: 1rem; fill: #1f2937; }
.modal { position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: flex; align-items: center; justify-content: center; }
.modal.hidden { display: none; }
.modal-content { background: #fff; border-radius: 0.5rem; padding: 1.5rem; min-width: 20rem; position: relative; }
.modal-close { position: absolute; top: 0.5rem; right: 0.75rem; border: none; background: none; cursor: pointer; }
.carousel { position: relative; margin: 0.5rem 0; }
.carousel-slide { max-width: 100%; border-radius: 0.5rem; }
.chart-bar { display: grid; grid-template-columns: 6rem 1fr 3rem; align-items: center; gap: 0.5rem; margin: 0.25rem 0; }
.chart-bar-fill { background: #3b82f6; height: 1rem; border-radius: 0.25rem; }
`

// Document wraps a rendered fragment in a minimal standalone page with the
// base stylesheet embedded. Used by the html output format and the demo UI.
func Document(title, body string) string {
	var sb strings.Builder
	sb.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>" + esc(title) + "</title>\n")
	sb.WriteString("<style>\n" + baseCSS + "</style>\n")
	sb.WriteString("</head>\n<body>\n<main class=\"flux-output\">\n")
	sb.WriteString(body)
	sb.WriteString("\n</main>\n</body>\n</html>\n")
	return sb.String()
}
