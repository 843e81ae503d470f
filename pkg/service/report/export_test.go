package report

var ChartLabel = chartLabel
