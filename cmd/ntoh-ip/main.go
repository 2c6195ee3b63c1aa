package main

import (
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/ipconv"
)

func convert(arg string) (string, error) {
	v, err := ipconv.ParseU32(arg)
	if err != nil {
		return "", err
	}
	return ipconv.Format(v), nil
}

// operands parses args with fs and returns the positional arguments. A
// signed number such as -5 is an operand, not a shorthand flag.
func operands(fs *flag.FlagSet, args []string) ([]string, error) {
	for i, a := range args {
		if a == "--" {
			break
		}
		if len(a) > 1 && a[0] == '-' && a[1] >= '0' && a[1] <= '9' {
			args = append(append(args[:i:i], "--"), args[i:]...)
			break
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

func main() {
	args, err := operands(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if len(args) != 1 {
		fmt.Printf("Usage: %s <u32 number in network byte order>\n", os.Args[0])
		os.Exit(1)
	}

	ip, err := convert(args[0])
	if err != nil {
		log.Fatalf("Failed to convert: %v", err)
	}

	fmt.Println("IP address:", ip)
}
