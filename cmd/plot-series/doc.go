/*
Plot-series compares the UDP packet rate of four collector runs polled at
different frequencies.

Every input is a JSON-lines log written by the tc egress collector, one line
per second of the form

	{"<unix-seconds>": {"<ip>": {"udp_bytes": [...], "udp_packets": [...]}}}

where each array holds one bin per poll. The program first prints, for every
file, the bin count, sum, minimum and maximum of udp_packets for lines 1
through 19:

	time_id, bins, sum_packets, min_packets, max_packets
	1, 20, 51234, 2301, 2790
	...

It then takes line 2 of each file, cuts a window out of its packet bins and
scales every bin by the run's polling frequency to million packets per
second. The default runs are

	run  Hz    offset  window  x tick
	1    20    5       10      1
	2    200   50      100     10
	3    2000  500     1000    100
	4    4000  1000    2000    200

The four panels are saved to udp_plot.pdf and opened in the default viewer.

Usage:

	plot-series [--config file] [--output file] [--show=false] <file_20Hz> <file_200Hz> <file_2000Hz> <file_4000Hz>

The run table, line ranges, output and figure size can be changed in the
YAML file given with --config; the number of file arguments follows the
number of runs.
*/
package main
