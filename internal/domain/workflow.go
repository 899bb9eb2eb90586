package domain

// Workflow descreve a forma comum dos dois fluxos de aprovação do sistema
// (Submissões de planilha e Listas Rápidas): um estado de rascunho opcional,
// um estado pendente e estados terminais que podem ser revertidos.
// As duas máquinas de estado compartilham esta tabela em vez de duplicar as
// regras de transição em cada serviço.
type Workflow struct {
	Draft     string
	Pending   string
	Terminals []string
}

// SubmissaoWorkflow: submissões nascem PENDENTE (não existe rascunho).
var SubmissaoWorkflow = Workflow{
	Pending: string(SubmissaoPendente),
	Terminals: []string{
		string(SubmissaoAprovada),
		string(SubmissaoRejeitada),
		string(SubmissaoParcialmenteAprovada),
	},
}

// ListaRapidaWorkflow: listas rápidas nascem em rascunho e são submetidas
// explicitamente pelo colaborador.
var ListaRapidaWorkflow = Workflow{
	Draft:   string(ListaRapidaRascunho),
	Pending: string(ListaRapidaPendente),
	Terminals: []string{
		string(ListaRapidaAprovada),
		string(ListaRapidaRejeitada),
	},
}

// CanSubmit informa se o fluxo pode sair do rascunho para pendente.
func (w Workflow) CanSubmit(from string) bool {
	return w.Draft != "" && from == w.Draft
}

// CanDecide informa se o fluxo pode receber uma decisão (aprovar/rejeitar).
func (w Workflow) CanDecide(from string) bool {
	return from == w.Pending
}

// CanRevert informa se a decisão pode ser desfeita, voltando para pendente.
func (w Workflow) CanRevert(from string) bool {
	for _, t := range w.Terminals {
		if from == t {
			return true
		}
	}
	return false
}
