// Exit codes for scripted use of `astrelium ask --exit-code`.
//
// Command outcomes take precedence. When no stage ran, the reply text is
// checked for a pass/fail verdict so a prompt such as "does this compile?
// answer PASS or FAIL" can drive a shell conditional.
//
// Note: the verdict regexes use case-insensitive matching, UTF-8 is supported.
package app

import (
	"regexp"
)

// exit codes reported by ask --exit-code
const (
	ExitOK             = 0
	ExitModelError     = 10
	ExitFileError      = 11
	ExitCommandsPassed = 30
	ExitCommandFailed  = 31
)

// pre-compiled patterns for pass/fail detection
// supporting latin scripts: English, Spanish, French, German, Portuguese, Italian
var passFailRegex = struct {
	Pass *regexp.Regexp
	Fail *regexp.Regexp
}{
	Pass: regexp.MustCompile(`(?i)\b(pass|passed|success|approved|accepted|ok|okay|true|correct|valid|successful|` +
		// Spanish
		`aprobado|aceptado|correcto|válido|exitoso|verdadero|` +
		// French
		`réussi|approuvé|accepté|correct|valide|succès|vrai|` +
		// German
		`bestanden|genehmigt|akzeptiert|korrekt|gültig|erfolgreich|richtig|` +
		// Portuguese
		`aprovado|aceito|correto|válido|sucesso|verdadeiro|` +
		// Italian
		`approvato|accettato|corretto|valido|successo|vero)\b`),

	Fail: regexp.MustCompile(`(?i)(^|\s|[^\p{L}])(fail|failed|error|rejected|denied|false|incorrect|invalid|unsuccessful|` +
		// Spanish
		`fallar|fallado|rechazado|denegado|falso|incorrecto|inválido|fracaso|` +
		// French
		`échoué|rejeté|refusé|faux|incorrect|invalide|échec|erreur|` +
		// German
		`fehlgeschlagen|abgelehnt|verweigert|falsch|ungültig|fehler|` +
		// Portuguese
		`falhou|rejeitado|negado|falso|incorreto|inválido|fracasso|erro|` +
		// Italian
		`fallito|respinto|negato|falso|errato|invalido|fallimento|errore)($|\s|[^\p{L}])`),
}

// ExitCode maps the outcome of a turn to a process exit status
func ExitCode(o *Outcome) int {
	if o == nil {
		return ExitOK
	}
	if o.Err != nil && o.Reply == "" {
		return ExitModelError
	}
	if o.Report.Failed() > 0 {
		return ExitFileError
	}

	ran := false
	for _, s := range o.Stages {
		if s.Failed() {
			return ExitCommandFailed
		}
		if !s.Skipped {
			ran = true
		}
	}
	if ran {
		return ExitCommandsPassed
	}

	return determinePassFailExitCode(o.Reply)
}

// getTextPart extracts partial text based on length and direction
func getTextPart(text string, length int, fromEnd bool) string {
	if len(text) <= length {
		return text
	}

	if fromEnd {
		return text[len(text)-length:]
	}
	return text[:length]
}

// determinePassFailExitCode performs a multi-pass check for pass/fail
func determinePassFailExitCode(response string) int {
	// first pass: strict check on the beginning
	firstPart := getTextPart(response, 15, false)
	if passFailRegex.Pass.MatchString(firstPart) {
		return ExitCommandsPassed
	}
	if passFailRegex.Fail.MatchString(firstPart) {
		return ExitCommandFailed
	}

	// second pass: check the end
	lastPart := getTextPart(response, 15, true)
	if passFailRegex.Pass.MatchString(lastPart) {
		return ExitCommandsPassed
	}
	if passFailRegex.Fail.MatchString(lastPart) {
		return ExitCommandFailed
	}

	// third pass: broader check on the beginning
	introPart := getTextPart(response, 25, false)
	if passFailRegex.Pass.MatchString(introPart) {
		return ExitCommandsPassed
	}
	if passFailRegex.Fail.MatchString(introPart) {
		return ExitCommandFailed
	}

	return ExitOK
}
