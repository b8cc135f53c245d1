package policy

import (
	"errors"
	"strings"
)

const (
	editSentinel  = "???"
	editDelimiter = "#####"

	// первые символы инструкции служебные и отбрасываются
	editInstructionPrefix = 3
)

var ErrBadEditCommand = errors.New("malformed edit command")

// ParseEditCommand разбирает привилегированную команду оператора:
//
//	"???<метка>#####<3 служебных символа><инструкция>#####<входной текст>"
//
// Инструкция — вторая часть без служебного префикса, входной текст —
// всё после второго разделителя. Команды с меньшим числом разделителей
// или слишком короткой инструкцией отбрасываются целиком, к провайдеру
// такие запросы не уходят.
func ParseEditCommand(text string) (instruction, input string, err error) {
	if !strings.HasPrefix(text, editSentinel) {
		return "", "", ErrBadEditCommand
	}

	parts := strings.SplitN(text, editDelimiter, 3)
	if len(parts) < 3 {
		return "", "", ErrBadEditCommand
	}
	if len(parts[1]) <= editInstructionPrefix {
		return "", "", ErrBadEditCommand
	}

	return parts[1][editInstructionPrefix:], parts[2], nil
}
