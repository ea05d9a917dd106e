package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errNoTopic = errors.New("no topic provided")

// readTopic returns the discussion topic: from --file when given, else the
// positional argument, else interactively from in until two consecutive
// blank lines or EOF. The prompt goes to prompt.
func readTopic(args []string, file string, in io.Reader, prompt io.Writer) (string, error) {
	var topic string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading topic file: %w", err)
		}
		topic = string(data)
	case len(args) > 0:
		topic = args[0]
	default:
		fmt.Fprintln(prompt, "Enter your topic, question, or paste a document:")
		fmt.Fprintln(prompt, "(Press Enter twice when done)")
		var err error
		if topic, err = readInteractive(in); err != nil {
			return "", err
		}
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", errNoTopic
	}
	return topic, nil
}

func readInteractive(in io.Reader) (string, error) {
	var lines []string
	empty := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			empty++
			if empty >= 2 {
				break
			}
		} else {
			empty = 0
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading topic: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}
