// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

var (
	errInputEmpty      = errors.New("input is empty")
	errInvalidChoice   = errors.New("invalid choice")
	errIndexOutOfRange = errors.New("index out-of-range")
)

func promptBool(label string) (bool, error) {
	promptText := promptui.Prompt{
		Label: label + " (y/n)",
		Validate: func(input string) error {
			if len(input) == 0 {
				return errInputEmpty
			}
			lower := strings.ToLower(input)
			if lower == "y" || lower == "n" {
				return nil
			}
			return errInvalidChoice
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(raw)) == "y", nil
}

func promptChoice(label string, max int) (int, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return errInputEmpty
			}
			index, err := strconv.Atoi(input)
			if err != nil {
				return err
			}
			if index >= max || index < 0 {
				return errIndexOutOfRange
			}
			return nil
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return -1, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}
