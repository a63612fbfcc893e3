package cgd_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/finboard/internal/importer/cgd"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR
Saldo disponível;1.000,00 EUR

Dados da consulta
Período;Últimos 90 dias
Intervalo de;01-01-2026 a 31-01-2026
Tipos de movimento;Todos

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	p := cgd.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2026, 1, 30), txs[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", txs[0].Description)
	assert.Equal(t, money.Amount(-58874), txs[0].Amount)
	assert.Equal(t, transaction.CategoryOther, txs[0].Category)

	assert.Equal(t, date(2026, 1, 9), txs[1].Date)
	assert.Equal(t, "TFI Wise", txs[1].Description)
	assert.Equal(t, money.Amount(860852), txs[1].Amount)
	assert.Equal(t, transaction.CategoryIncome, txs[1].Category)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
NIF ;517948974
Conta ;0829015676030 - EUR - Conta Extracto
Intervalo de ;01-02-2026 a 14-02-2026
Tipos de movimento ;Todos
Saldo contabilístico Inicial ;48.825,46
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	p := cgd.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2026, 2, 13), txs[0].Date)
	assert.Equal(t, "PAGAMENTO TSU", txs[0].Description)
	assert.Equal(t, money.Amount(-60813), txs[0].Amount)
	assert.Equal(t, transaction.CategoryOther, txs[0].Category)

	assert.Equal(t, date(2026, 2, 4), txs[1].Date)
	assert.Equal(t, "TFI Wise", txs[1].Description)
	assert.Equal(t, money.Amount(432406), txs[1].Amount)
	assert.Equal(t, transaction.CategoryIncome, txs[1].Category)
}

func TestParser_Cartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
NIF ;517948974

Conta cartão ;4163 **** **** 8016 - EUR - Business Débito
Tipo de movimentos ;Conta à ordem
Desde ;15/12/2025

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
 ; ; ; ;Página 1/2 ;
`

	p := cgd.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2025, 12, 16), txs[0].Date)
	assert.Equal(t, "PA GONDOMAR         GONDOMAR", txs[0].Description)
	assert.Equal(t, money.Amount(-6400), txs[0].Amount)
	assert.Equal(t, transaction.CategoryOther, txs[0].Category)

	assert.Equal(t, date(2025, 12, 31), txs[1].Date)
	assert.Equal(t, "UBER   *TRIP             HELP.UBER.COMNL", txs[1].Description)
	assert.Equal(t, money.Amount(-4791), txs[1].Amount)
	assert.Equal(t, transaction.CategoryOther, txs[1].Category)
}

func TestParser_CartaoCredit(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
`

	p := cgd.NewParser()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, money.Amount(2500), txs[0].Amount)
	assert.Equal(t, transaction.CategoryIncome, txs[0].Category)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	encoder := charmap.Windows1252.NewEncoder()
	latin1Bytes, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := cgd.NewParser()
	txs, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "CAFÉ CENTRAL", txs[0].Description)
}

func TestParser_Rows(t *testing.T) {
	type row struct {
		desc   string
		amount money.Amount
	}

	tests := []struct {
		name string
		csv  string
		want []row
	}{
		{
			name: "columns in any order",
			csv: `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-10,00;TEST_ORDER;30-01-2026;XXX
`,
			want: []row{{"TEST_ORDER", -1000}},
		},
		{
			name: "header only",
			csv:  `Data mov.;Data-valor;Descrição;Montante`,
		},
		{
			name: "zero debit skipped",
			csv: `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;NOTHING ;0,00 ; ;
17-12-2025 ;17-12-2025 ;SOMETHING ;1,50 ; ;
`,
			want: []row{{"SOMETHING", -150}},
		},
		{
			name: "negative debit stays an outflow",
			csv: `Data ;Descrição ;Débito ;Crédito ;
16-12-2025 ;FEE ;-2,00 ; ;
`,
			want: []row{{"FEE", -200}},
		},
		{
			name: "thousands separators",
			csv: `Data mov.;Descrição;Montante
30-01-2026;BIG TRANSFER;-1.234.567,89
`,
			want: []row{{"BIG TRANSFER", -123456789}},
		},
		{
			name: "footer rows skipped",
			csv: `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
Totais;;;;
`,
			want: []row{{"TEST", -1000}},
		},
		{
			name: "unparseable amount skipped",
			csv: `Data mov.;Descrição;Montante
30-01-2026;BROKEN;abc
31-01-2026;OK;1,00
`,
			want: []row{{"OK", 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)

			got := make([]row, 0, len(txs))
			for _, tx := range txs {
				got = append(got, row{tx.Description, tx.Amount})
			}

			assert.Equal(t, len(tt.want), len(got))

			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParser_UnknownLayout(t *testing.T) {
	for _, csv := range []string{"", "Date;Description;Amount\n2026-01-30;X;1.00\n"} {
		_, err := cgd.NewParser().Parse(strings.NewReader(csv))
		require.ErrorIs(t, err, cgd.ErrUnknownLayout)
	}
}

func TestParser_MissingDescription(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;;-10,00
`

	_, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2: missing description")
}

func TestParser_LeavesAccountUnset(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
`

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, uuid.Nil, txs[0].AccountID)
	assert.False(t, txs[0].Recurring)
}
