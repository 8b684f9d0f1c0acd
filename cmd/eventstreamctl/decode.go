package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"eventstream/config"
	"eventstream/decoder"
	"eventstream/sse"
)

var (
	decodeCRC        bool
	decodeMaxErrors  uint32
	decodeSSE        bool
	decodeChunkBytes int
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file|->",
	Short: "Feed a file (or stdin, with -) through a Decoder and print messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	// Flag defaults start from the env-overlaid config, not the bare
	// package defaults, so an unset flag still honors
	// EVENTSTREAM_MAX_ERRORS / EVENTSTREAM_VALIDATE_CRC. An explicit flag
	// still wins, since cobra only applies these as the pre-parse default.
	envCfg := config.FromEnv()

	decodeCmd.Flags().BoolVar(&decodeCRC, "crc", envCfg.ValidateCRC, "validate frame CRCs")
	decodeCmd.Flags().Uint32Var(&decodeMaxErrors, "max-errors", envCfg.MaxErrors, "consecutive failures tolerated before stopping")
	decodeCmd.Flags().BoolVar(&decodeSSE, "sse", false, "also render each message as an SSE text event")
	decodeCmd.Flags().IntVar(&decodeChunkBytes, "chunk-bytes", 4096, "simulated network chunk size fed to the decoder at a time")
}

func runDecode(_ *cobra.Command, args []string) error {
	cfg := config.Config{MaxErrors: decodeMaxErrors, ValidateCRC: decodeCRC}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	d := decoder.New(cfg.MaxErrors, cfg.ValidateCRC)
	buf := make([]byte, decodeChunkBytes)

	for {
		n, err := in.Read(buf)
		if n > 0 {
			for i, msg := range d.Feed(buf[:n]) {
				printMessage(i, msg)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "messages_parsed=%d crc_errors=%d state=%s\n",
		d.MessagesParsed(), d.CrcErrors(), d.State())
	return nil
}

func printMessage(index int, msg decoder.ParsedMessage) {
	headers := make(map[string]any, len(msg.Headers))
	for k, v := range msg.Headers {
		switch {
		case v.Type == decoder.ValueTypeBoolTrue || v.Type == decoder.ValueTypeBoolFalse:
			headers[k] = v.Bool
		case v.Str != "":
			headers[k] = v.Str
		default:
			headers[k] = v.Int
		}
	}

	line, _ := sonic.ConfigStd.Marshal(map[string]any{
		"headers":      headers,
		"payload":      msg.Payload,
		"total_length": msg.TotalLength,
	})
	fmt.Println(string(line))

	if decodeSSE {
		fmt.Print(sse.ContentBlockDelta(index, fmt.Sprintf("%v", msg.Payload), "text_delta", "text").Format())
	}
}
