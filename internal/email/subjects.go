package email

const (
	subjectUrgentUnassignedTicket = "Manutencao urgente sem tecnico disponivel"
)
