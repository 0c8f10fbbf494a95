package narrative

import "text/template"

// One template per metric group. Every template has an explicit
// zero-record branch so "no data" never gets interpolated into a
// sentence built for counts.
const (
	headlineText = `{{if .HasRecords}}**Story headline:** In this view, **{{.TopType}}** is the most common complaint. The closure rate is **{{.ClosureRate}}**{{if .HasMedian}}, and the median time to close is **{{.Median}}**{{else}}; no requests in this view have closed yet{{end}}.{{if .HasBorough}} Highest volume borough here is **{{.TopBorough}}**.{{end}}{{else}}No records match the current filters. Try broadening your day, hour, or borough selection.{{end}}`

	categoriesText = `{{if .HasRecords}}**{{.Lead}}** leads with **{{.LeadCount}}** requests (~**{{.Share}}** of the displayed top {{.Shown}} categories).{{else}}No complaint categories to rank under the current filters.{{end}}`

	rhythmText = `{{if .HasPeak}}The busiest time is **{{.PeakDay}} at {{.PeakHour}}**, with **{{.PeakCount}}** requests.{{else}}No reporting rhythm to show under the current filters.{{end}}`

	resolutionText = `{{if .HasResolved}}Slowest categories by median closure time: {{range $i, $c := .Slowest}}{{if $i}} • {{end}}**{{$c.Name}}** (~{{$c.Median}}){{end}}.{{else}}No closed requests under the current filters, so closure times cannot be compared.{{end}}`

	mapText = `{{if .HasPoints}}In the mapped sample of **{{.PointCount}}** requests, complaints cluster most in **{{.TopBorough}}**, and the most common complaint type is **{{.TopType}}**.{{else}}No geocoded requests under the current filters.{{end}}`
)

var narrativeTemplates = template.Must(template.New("headline").Parse(headlineText))

func init() {
	template.Must(narrativeTemplates.New("categories").Parse(categoriesText))
	template.Must(narrativeTemplates.New("rhythm").Parse(rhythmText))
	template.Must(narrativeTemplates.New("resolution").Parse(resolutionText))
	template.Must(narrativeTemplates.New("map").Parse(mapText))
}
