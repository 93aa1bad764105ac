// Command dubscore compares dubbed renditions of the same program and
// recommends the one with the best audio quality.
//
// "dubscore analyze" measures every candidate with ffprobe and ffmpeg,
// scores it, writes quality_report.md plus per-file artifacts into the
// output directory, and records the session in the history database.
// "history" and "report" revisit past sessions; "deps" and "config" help
// with setup.
package main
