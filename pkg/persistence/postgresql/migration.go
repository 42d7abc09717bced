package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflow_runs (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL,
				workflow_name VARCHAR(255) NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL,
				trigger_data JSONB,
				variables JSONB,
				stages JSONB NOT NULL DEFAULT '[]',
				error_message TEXT NOT NULL DEFAULT '',
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflow_runs_workflow_id ON workflow_runs(workflow_id);
			CREATE INDEX idx_workflow_runs_started_at ON workflow_runs(started_at);
		`,
		2: `
			CREATE TABLE run_node_states (
				run_id VARCHAR(255) NOT NULL REFERENCES workflow_runs(id) ON DELETE CASCADE,
				node_id VARCHAR(255) NOT NULL,
				node_type VARCHAR(255) NOT NULL DEFAULT '',
				stage INT NOT NULL DEFAULT 0,
				status VARCHAR(50) NOT NULL,
				output JSONB,
				error_message TEXT NOT NULL DEFAULT '',
				reason TEXT NOT NULL DEFAULT '',
				started_at TIMESTAMP WITH TIME ZONE,
				completed_at TIMESTAMP WITH TIME ZONE,
				PRIMARY KEY (run_id, node_id)
			);

			CREATE INDEX idx_run_node_states_status ON run_node_states(status);
		`,
	}
}
